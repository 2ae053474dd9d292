package activitylog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobboard-backend/internal/models"
)

func makeRecords(n int) []models.LogRecord {
	out := make([]models.LogRecord, n)
	for i := range out {
		out[i] = models.LogRecord{ID: fmt.Sprintf("r%02d", i), Type: models.LogTypeAdmin}
	}
	return out
}

func TestPaginateBounds(t *testing.T) {
	records := makeRecords(45)

	first := Paginate(records, 20, 1)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 0, first.StartIndex)
	assert.Equal(t, 20, first.EndIndexExclusive)
	assert.Len(t, first.Items, 20)

	last := Paginate(records, 20, 3)
	assert.Equal(t, 40, last.StartIndex)
	assert.Equal(t, 45, last.EndIndexExclusive)
	assert.Len(t, last.Items, 5)
	assert.Equal(t, "r40", last.Items[0].ID)
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 20, 1)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.Total)
}

func TestNavigatePageClamps(t *testing.T) {
	total := TotalPages(45, 20)

	page, ok := NavigatePage(2, 4, total)
	assert.False(t, ok)
	assert.Equal(t, 2, page)

	page, ok = NavigatePage(2, 0, total)
	assert.False(t, ok)
	assert.Equal(t, 2, page)

	page, ok = NavigatePage(2, 3, total)
	assert.True(t, ok)
	assert.Equal(t, 3, page)
}

func TestPaginateDoesNotAliasAppend(t *testing.T) {
	records := makeRecords(5)
	p := Paginate(records, 2, 1)
	_ = append(p.Items, models.LogRecord{ID: "x"})
	assert.Equal(t, "r02", records[2].ID)
}
