package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presmtech/storefront/gangsheet/pkg/model"
)

func design(id string, width, height float64) model.Design {
	return model.Design{ID: id, Width: width, Height: height, Quantity: 1}
}

func TestNestDesignsShelfLayout(t *testing.T) {
	// 12x16 inch sheet is a 864x1152 unit canvas.
	designs := []model.Design{
		design("a", 100, 100),
		design("b", 100, 100),
		design("c", 100, 100),
	}

	nested := nestDesigns(designs, 12, 16)
	require.Len(t, nested, 3)
	assert.Equal(t, 5.0, nested[0].X)
	assert.Equal(t, 5.0, nested[0].Y)
	assert.Equal(t, 110.0, nested[1].X)
	assert.Equal(t, 5.0, nested[1].Y)
	assert.Equal(t, 215.0, nested[2].X)
}

func TestNestDesignsWideDesignWraps(t *testing.T) {
	designs := []model.Design{
		design("a", 100, 100),
		design("b", 100, 100),
		design("c", 700, 100),
	}

	nested := nestDesigns(designs, 12, 16)
	require.Len(t, nested, 3)
	assert.Equal(t, 5.0, nested[0].X)
	assert.Equal(t, 5.0, nested[0].Y)
	assert.Equal(t, 110.0, nested[1].X)
	assert.Equal(t, 5.0, nested[1].Y)
	assert.Equal(t, 5.0, nested[2].X)
	assert.Equal(t, 110.0, nested[2].Y)
}

func TestNestDesignsWrapsRows(t *testing.T) {
	// Each design is 400 wide; two fit in an 864 wide row, the third wraps.
	designs := []model.Design{
		design("a", 400, 100),
		design("b", 400, 100),
		design("c", 400, 100),
	}

	nested := nestDesigns(designs, 12, 16)
	require.Len(t, nested, 3)
	assert.Equal(t, 5.0, nested[0].X)
	assert.Equal(t, 405.0, nested[1].X)
	assert.Equal(t, 5.0, nested[2].X)
	assert.Equal(t, 110.0, nested[2].Y)
}

func TestNestDesignsRowHeightFollowsTallest(t *testing.T) {
	designs := []model.Design{
		design("a", 400, 300),
		design("b", 400, 100),
		design("c", 400, 100),
	}

	nested := nestDesigns(designs, 12, 16)
	require.Len(t, nested, 3)
	// Second row starts below the 300 tall design, not the 100 tall one.
	assert.Equal(t, 310.0, nested[2].Y)
}

func TestNestDesignsDropsOversize(t *testing.T) {
	designs := []model.Design{
		design("a", 100, 100),
		design("huge", 100, 5000),
		design("b", 100, 100),
	}

	nested := nestDesigns(designs, 12, 16)
	require.Len(t, nested, 2)
	assert.Equal(t, "a", nested[0].ID)
	assert.Equal(t, "b", nested[1].ID)
}

func TestNestDesignsEmptyList(t *testing.T) {
	nested := nestDesigns(nil, 12, 16)
	assert.Empty(t, nested)
}
