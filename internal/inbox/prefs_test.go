package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/inbox/internal/model"
	"github.com/edupulse/inbox/tests/testutil"
)

func loadedPrefs(t *testing.T) (*Session, *testutil.FakeService) {
	t.Helper()

	svc := testutil.NewService()
	svc.SeedPrefs(model.Preferences{
		Types:    model.TypeFlags{Assignment: true, Grade: true},
		Channels: model.ChannelFlags{InApp: true},
	})
	sess := newTestSession(t, svc)

	msg := sess.Prefs.Load()()
	require.NoError(t, msg.(PrefsLoadedMsg).Err)
	require.True(t, sess.Prefs.Loaded())
	return sess, svc
}

func TestPrefsLoadFailureSynthesizesNothing(t *testing.T) {
	svc := testutil.NewService()
	svc.Fail("prefs-get")
	sess := newTestSession(t, svc)

	msg := sess.Prefs.Load()()
	require.Error(t, msg.(PrefsLoadedMsg).Err)

	assert.False(t, sess.Prefs.Loaded())
	_, ok := sess.Prefs.Current()
	assert.False(t, ok)

	// Nothing loaded means nothing to edit or save.
	assert.False(t, sess.Prefs.Toggle(string(model.TypeGrade)))
	assert.False(t, sess.Prefs.SetQuietHour(model.QuietHourStart, "22:00"))
	assert.Nil(t, sess.Prefs.Save())
}

func TestPrefsToggleBatchesUntilSave(t *testing.T) {
	sess, svc := loadedPrefs(t)

	assert.True(t, sess.Prefs.Toggle(string(model.TypeGrade)))
	assert.True(t, sess.Prefs.Toggle(model.FlagChannelEmail))
	assert.False(t, sess.Prefs.Toggle("unknown-flag"))
	assert.True(t, sess.Prefs.Dirty())

	// Local only so far.
	assert.Nil(t, svc.LastPrefsPut)

	msg := sess.Prefs.Save()()
	require.NoError(t, msg.(PrefsSavedMsg).Err)
	assert.False(t, sess.Prefs.Dirty())

	// One request carried both edits, the full object each time.
	require.NotNil(t, svc.LastPrefsPut)
	assert.False(t, svc.LastPrefsPut.Types.Grade)
	assert.True(t, svc.LastPrefsPut.Types.Assignment)
	assert.True(t, svc.LastPrefsPut.Channels.Email)
	assert.True(t, svc.LastPrefsPut.Channels.InApp)
}

func TestPrefsQuietHourValidation(t *testing.T) {
	sess, _ := loadedPrefs(t)

	assert.True(t, sess.Prefs.SetQuietHour(model.QuietHourStart, "22:00"))
	assert.True(t, sess.Prefs.SetQuietHour(model.QuietHourEnd, "07:00"))

	// Malformed input is rejected silently, prior value untouched.
	assert.False(t, sess.Prefs.SetQuietHour(model.QuietHourStart, "25:70"))
	assert.False(t, sess.Prefs.SetQuietHour(model.QuietHourStart, "9:00"))

	p, ok := sess.Prefs.Current()
	require.True(t, ok)
	require.NotNil(t, p.QuietHoursStart)
	assert.Equal(t, "22:00", *p.QuietHoursStart)
	require.NotNil(t, p.QuietHoursEnd)
	assert.Equal(t, "07:00", *p.QuietHoursEnd)

	// Empty string clears a bound.
	assert.True(t, sess.Prefs.SetQuietHour(model.QuietHourEnd, ""))
	p, _ = sess.Prefs.Current()
	assert.Nil(t, p.QuietHoursEnd)
}

func TestPrefsSaveFailureKeepsEdits(t *testing.T) {
	sess, svc := loadedPrefs(t)

	sess.Prefs.Toggle(model.FlagChannelPush)
	svc.Fail("prefs-put")

	msg := sess.Prefs.Save()()
	require.Error(t, msg.(PrefsSavedMsg).Err)

	// Edits survive for a retry.
	assert.True(t, sess.Prefs.Dirty())
	p, _ := sess.Prefs.Current()
	assert.True(t, p.Channels.Push)
}

func TestPrefsSaveAdoptsServerEcho(t *testing.T) {
	sess, svc := loadedPrefs(t)

	sess.Prefs.SetQuietHour(model.QuietHourStart, "21:30")
	msg := sess.Prefs.Save()()
	require.NoError(t, msg.(PrefsSavedMsg).Err)

	p, ok := sess.Prefs.Current()
	require.True(t, ok)
	require.NotNil(t, p.QuietHoursStart)
	assert.Equal(t, "21:30", *p.QuietHoursStart)
	require.NotNil(t, svc.LastPrefsPut)

	// Reload discards nothing unsaved; working copy matches the server.
	msg = sess.Prefs.Load()()
	require.NoError(t, msg.(PrefsLoadedMsg).Err)
	p, _ = sess.Prefs.Current()
	require.NotNil(t, p.QuietHoursStart)
	assert.Equal(t, "21:30", *p.QuietHoursStart)
}
