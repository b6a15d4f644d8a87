package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitBrokers(""))
}

func TestNewAdminRequiresBrokers(t *testing.T) {
	_, err := NewAdmin(nil)
	require.Error(t, err)
}
