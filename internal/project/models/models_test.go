package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vctbuilder/pkg/testutil"
)

func TestCloneIsIndependent(t *testing.T) {
	p := &Project{
		ID:         testutil.TestIDs.Project1,
		Name:       "Identity",
		VCT:        testutil.NewDocumentBuilder().WithClaim("Given name", "given_name").Build(),
		SampleData: map[string]string{"given_name": "Ada"},
		CreatedAt:  testutil.FixedTime,
		UpdatedAt:  testutil.FixedTime,
	}

	c := p.Clone()
	c.VCT.Claims[0].Display[0].Label = "changed"
	c.SampleData["given_name"] = "Grace"
	c.VCT.Display[0].Name = "changed"

	assert.Equal(t, "Given name", p.VCT.Claims[0].Display[0].Label)
	assert.Equal(t, "Ada", p.SampleData["given_name"])
	assert.NotEqual(t, "changed", p.VCT.Display[0].Name)
	assert.Nil(t, (*Project)(nil).Clone())
}

func TestSummary(t *testing.T) {
	p := &Project{
		ID:        testutil.TestIDs.Project2,
		Name:      "Membership",
		VCT:       testutil.NewDocumentBuilder().WithClaim("Member", "member_id").Build(),
		UpdatedAt: testutil.FixedTime.Add(time.Hour),
	}
	s := p.Summary()
	assert.Equal(t, p.ID, s.ID)
	assert.Equal(t, "https://credentials.example.com/identity_credential", s.VCT)
	assert.Equal(t, []string{"en-CA", "fr-CA"}, s.Locales)
	assert.Equal(t, 1, s.Claims)
}
