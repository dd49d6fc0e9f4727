package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStateRoundTrip(t *testing.T, s Store) {
	t.Helper()

	got, err := s.GetState("555")
	require.NoError(t, err)
	assert.Nil(t, got)

	st := State{Flow: &LoginFlow{Kind: FlowRegister, Step: StepWaitingForEmail, Name: "Ana María"}}
	require.NoError(t, s.PutState("555", st))

	got, err = s.GetState("555")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Flow)
	assert.Equal(t, FlowRegister, got.Flow.Kind)
	assert.Equal(t, StepWaitingForEmail, got.Flow.Step)
	assert.Equal(t, "Ana María", got.Flow.Name)

	require.NoError(t, s.DeleteState("555"))

	got, err = s.GetState("555")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting an absent key is not an error
	require.NoError(t, s.DeleteState("nadie"))
}

func TestMemoryStoreStateRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStateRoundTrip(t, s)
}

func TestBoltStoreStateRoundTrip(t *testing.T) {
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "avobot.db"))
	require.NoError(t, err)
	defer s.Close()
	testStateRoundTrip(t, s)
}

func TestMemoryStoreIsolatesReturnedState(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.PutState("555", State{AIAssist: true}))

	got, err := s.GetState("555")
	require.NoError(t, err)
	got.AIAssist = false

	again, err := s.GetState("555")
	require.NoError(t, err)
	assert.True(t, again.AIAssist)
}

func TestMemoryStoreInteractions(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	rec := InteractionRecord{
		ID:        "rec-1",
		Sender:    "555",
		Model:     "gemini-2.5-flash",
		Prompt:    "¿cuáles son sus horarios?",
		Response:  "Atendemos de lunes a viernes.",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.LogInteraction(rec))

	recs := s.Interactions()
	require.Len(t, recs, 1)
	assert.Equal(t, rec, recs[0])
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avobot.db")

	s, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.PutState("555", State{Flow: &LoginFlow{Kind: FlowLogin, Step: StepWaitingForCredential}}))
	require.NoError(t, s.LogInteraction(InteractionRecord{ID: "rec-1", Sender: "555"}))
	require.NoError(t, s.Close())

	s, err = NewBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetState("555")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Flow)
	assert.Equal(t, FlowLogin, got.Flow.Kind)
}

func TestStateEmpty(t *testing.T) {
	assert.True(t, State{}.Empty())
	assert.False(t, State{AIAssist: true}.Empty())
	assert.False(t, State{Flow: &LoginFlow{}}.Empty())
}
