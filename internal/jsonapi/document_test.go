package jsonapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryWithoutPagination(t *testing.T) {
	assert.Equal(t, "", QueryWithoutPagination(""))
	assert.Equal(t, "filter[beta]=true", QueryWithoutPagination("filter[beta]=true&page[limit]=10"))
	assert.Equal(t, "", QueryWithoutPagination("page[limit]=10&page[offset]=5"))
}

func TestCollectionDocument_BuildLinks(t *testing.T) {
	d := CollectionDocument{
		Document:       Document{BasePath: "/wda/devices"},
		PageOffset:     10,
		PageLimit:      10,
		PageElementMax: 35,
	}
	links := d.BuildLinks()
	assert.Equal(t, "/wda/devices?page[limit]=10&page[offset]=10", links["self"])
	assert.Equal(t, "/wda/devices?page[limit]=10&page[offset]=0", links["first"])
	assert.Equal(t, "/wda/devices?page[limit]=10&page[offset]=30", links["last"])
	assert.Equal(t, "/wda/devices?page[limit]=10&page[offset]=20", links["next"])
	assert.Equal(t, "/wda/devices?page[limit]=10&page[offset]=0", links["prev"])
}

func TestCollectionDocument_BuildLinks_FirstPage(t *testing.T) {
	d := CollectionDocument{
		Document:       Document{BasePath: "/wda/devices"},
		PageOffset:     0,
		PageLimit:      10,
		PageElementMax: 5,
	}
	links := d.BuildLinks()
	_, hasPrev := links["prev"]
	_, hasNext := links["next"]
	assert.False(t, hasPrev)
	assert.False(t, hasNext)
	assert.Equal(t, "/wda/devices?page[limit]=10&page[offset]=0", links["last"])
}

func TestApplyPaging(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, ApplyPaging(items, 2, 2))
	assert.Equal(t, []int{5}, ApplyPaging(items, 10, 4))
	assert.Empty(t, ApplyPaging(items, 10, 10))
}
