package editor

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vctbuilder/internal/vct/models"
	dErrors "vctbuilder/pkg/domain-errors"
	"vctbuilder/pkg/testutil"
)

func TestSessionApply(t *testing.T) {
	t.Run("starts with default document", func(t *testing.T) {
		st := NewSession().Snapshot()
		assert.Equal(t, []string{"en-CA", "fr-CA"}, st.Doc.Locales())
		assert.Equal(t, models.UntitledName, st.ProjectName)
		assert.False(t, st.HasProject())
	})

	t.Run("failed transition leaves document unchanged", func(t *testing.T) {
		s := NewSession()
		before := s.Document()
		_, err := s.Apply(AddDisplay("en-CA"))
		require.Error(t, err)
		assert.Equal(t, before, s.Document())
	})

	t.Run("reads are copies", func(t *testing.T) {
		s := NewSession()
		doc := s.Document()
		doc.Display[0].Name = "leaked"
		assert.Empty(t, s.Document().Display[0].Name)
	})

	t.Run("concurrent adds are serialized", func(t *testing.T) {
		s := NewSession()
		res := testutil.RunConcurrent(20, func(idx int) error {
			_, err := s.Apply(AddDisplay(fmt.Sprintf("x%02d", idx%10)))
			return err
		})
		assert.Equal(t, 10, res.Successes)
		assert.Equal(t, 10, res.Count(dErrors.CodeConflict))
		assert.Equal(t, 20, res.Total())
		assert.Len(t, s.Document().Display, 12)
	})
}

func TestSessionUpdateAndReplace(t *testing.T) {
	s := NewSession()
	id := uuid.New()

	_, err := s.Update(func(st *State) error {
		st.ProjectID = id
		st.ProjectName = "Badge"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, id, s.Snapshot().ProjectID)

	_, err = s.Update(func(st *State) error {
		st.ProjectName = "discarded"
		return dErrors.New(dErrors.CodeInternal, "boom")
	})
	require.Error(t, err)
	assert.Equal(t, "Badge", s.Snapshot().ProjectName)

	assert.False(t, s.ResetProject(uuid.New()), "other project leaves the session alone")
	assert.Equal(t, "Badge", s.Snapshot().ProjectName)

	_, err = s.Apply(AddClaim())
	require.NoError(t, err)
	assert.True(t, s.ResetProject(id))
	assert.Empty(t, s.Document().Claims)
	assert.False(t, s.Snapshot().HasProject())

	st := s.Reset()
	assert.Equal(t, uuid.Nil, st.ProjectID)
	assert.Equal(t, models.UntitledName, st.ProjectName)
}

func TestSessionSampleData(t *testing.T) {
	s := NewSession()
	s.SetSampleValue("credentialSubject.age", "42")
	s.SetSampleValue("given_name", "Ada")
	s.SetSampleValue("given_name", "")

	assert.Equal(t, models.SampleData{"credentialSubject.age": "42"}, s.Snapshot().Sample)

	out := s.SetSampleData(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSessionIntegrityTickets(t *testing.T) {
	logo := Target{Kind: TargetLogo, Display: 0}
	newSession := func() *Session {
		s := NewSession()
		s.Replace(State{Doc: testutil.NewDocumentBuilder().WithLogo("https://example.com/a.png").Build()})
		return s
	}

	t.Run("completes current ticket", func(t *testing.T) {
		s := newSession()
		ticket, err := s.BeginIntegrity(logo)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a.png", ticket.URI)

		doc, err := s.CompleteIntegrity(ticket, "sha256-a")
		require.NoError(t, err)
		assert.Equal(t, "sha256-a", *doc.Display[0].Rendering.Simple.Logo.URIIntegrity)
	})

	t.Run("newer request wins", func(t *testing.T) {
		s := newSession()
		first, err := s.BeginIntegrity(logo)
		require.NoError(t, err)
		second, err := s.BeginIntegrity(logo)
		require.NoError(t, err)

		_, err = s.CompleteIntegrity(second, "sha256-second")
		require.NoError(t, err)
		_, err = s.CompleteIntegrity(first, "sha256-first")
		assert.ErrorIs(t, err, ErrStaleIntegrity)
		assert.Equal(t, "sha256-second", *s.Document().Display[0].Rendering.Simple.Logo.URIIntegrity)

		third, err := s.BeginIntegrity(logo)
		require.NoError(t, err)
		_, err = s.CompleteIntegrity(first, "sha256-first")
		assert.ErrorIs(t, err, ErrStaleIntegrity)
		_, err = s.CompleteIntegrity(third, "sha256-third")
		assert.NoError(t, err)
	})

	t.Run("editing the uri invalidates the ticket", func(t *testing.T) {
		s := newSession()
		ticket, err := s.BeginIntegrity(logo)
		require.NoError(t, err)

		r := s.Document().Display[0].Rendering.Clone()
		r.Simple.Logo.URI = "https://example.com/b.png"
		_, err = s.Apply(UpdateDisplay(0, DisplayPatch{Rendering: &r}))
		require.NoError(t, err)

		_, err = s.CompleteIntegrity(ticket, "sha256-a")
		assert.ErrorIs(t, err, ErrStaleIntegrity)
		assert.Nil(t, s.Document().Display[0].Rendering.Simple.Logo.URIIntegrity)
	})

	t.Run("unrelated edits keep the ticket valid", func(t *testing.T) {
		s := newSession()
		ticket, err := s.BeginIntegrity(logo)
		require.NoError(t, err)

		_, err = s.Apply(UpdateFields(FieldsPatch{Name: models.Ptr("Renamed")}))
		require.NoError(t, err)

		_, err = s.CompleteIntegrity(ticket, "sha256-a")
		assert.NoError(t, err)
	})

	t.Run("replacing the document invalidates all tickets", func(t *testing.T) {
		s := newSession()
		ticket, err := s.BeginIntegrity(logo)
		require.NoError(t, err)
		s.Replace(s.Snapshot())

		_, err = s.CompleteIntegrity(ticket, "sha256-a")
		assert.ErrorIs(t, err, ErrStaleIntegrity)
	})

	t.Run("target without uri is not found", func(t *testing.T) {
		s := NewSession()
		_, err := s.BeginIntegrity(Target{Kind: TargetSchemaURI})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
