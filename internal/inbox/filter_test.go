package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/inbox/internal/model"
)

func TestFilterEngineDefaults(t *testing.T) {
	f := NewFilterEngine(25)

	desc, seq := f.Current()
	assert.Equal(t, 1, desc.Page)
	assert.Equal(t, 25, desc.PerPage)
	assert.Nil(t, desc.Status)
	assert.Nil(t, desc.Type)
	assert.Nil(t, desc.Priority)
	assert.False(t, desc.IncludeExpired)
	assert.Equal(t, uint64(1), seq)
	assert.Equal(t, TabAll, f.Tab())

	f = NewFilterEngine(0)
	desc, _ = f.Current()
	assert.Equal(t, 20, desc.PerPage)
}

func TestFilterChangeResetsPageAndBumpsSeq(t *testing.T) {
	f := NewFilterEngine(20)
	f.SetPage(4)

	nt := model.TypeGrade
	desc, seq := f.SetType(&nt)
	assert.Equal(t, 1, desc.Page)
	require.NotNil(t, desc.Type)
	assert.Equal(t, model.TypeGrade, *desc.Type)
	assert.Equal(t, uint64(3), seq)

	p := model.PriorityUrgent
	desc, seq = f.SetPriority(&p)
	assert.Equal(t, 1, desc.Page)
	assert.Equal(t, uint64(4), seq)

	desc, seq = f.SetIncludeExpired(true)
	assert.True(t, desc.IncludeExpired)
	assert.Equal(t, uint64(5), seq)

	desc, seq = f.SetPerPage(50)
	assert.Equal(t, 50, desc.PerPage)
	assert.Equal(t, uint64(6), seq)
}

func TestFilterSetPageKeepsFilters(t *testing.T) {
	f := NewFilterEngine(20)
	nt := model.TypeDeadline
	f.SetType(&nt)

	desc, seq := f.SetPage(3)
	assert.Equal(t, 3, desc.Page)
	require.NotNil(t, desc.Type)
	assert.Equal(t, model.TypeDeadline, *desc.Type)
	assert.Equal(t, uint64(3), seq)

	desc, _ = f.SetPage(0)
	assert.Equal(t, 1, desc.Page)
}

func TestFilterTabOverwritesStatus(t *testing.T) {
	f := NewFilterEngine(20)

	archived := model.StatusArchived
	desc, _ := f.SetStatus(&archived)
	require.NotNil(t, desc.Status)
	assert.Equal(t, model.StatusArchived, *desc.Status)

	desc, _ = f.SetTab(TabUnread)
	assert.Equal(t, TabUnread, f.Tab())
	require.NotNil(t, desc.Status)
	assert.Equal(t, model.StatusUnread, *desc.Status)

	desc, _ = f.SetTab(TabAll)
	assert.Nil(t, desc.Status)

	desc, _ = f.SetTab(TabArchived)
	require.NotNil(t, desc.Status)
	assert.Equal(t, model.StatusArchived, *desc.Status)
}

func TestCoercePerPage(t *testing.T) {
	assert.Equal(t, 50, CoercePerPage("50", 20))
	assert.Equal(t, 20, CoercePerPage("fifty", 20))
	assert.Equal(t, 20, CoercePerPage("", 20))
	// Out-of-range input passes through; the server owns the bounds.
	assert.Equal(t, 500, CoercePerPage("500", 20))
	assert.Equal(t, -1, CoercePerPage("-1", 20))
}
