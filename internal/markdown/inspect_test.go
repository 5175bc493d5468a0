package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspect_Table(t *testing.T) {
	s := Inspect("Name|Qty\n---|---\napples|3\npears|5\n")

	assert.Equal(t, 1, s.Tables)
	assert.Equal(t, 2, s.Columns)
	assert.Equal(t, 3, s.Rows)
}

func TestInspect_List(t *testing.T) {
	s := Inspect("1. a\n2. b\n3. **c**\n")

	assert.Equal(t, 0, s.Tables)
	assert.Equal(t, 3, s.ListItems)
}

func TestInspect_Empty(t *testing.T) {
	assert.Equal(t, Shape{}, Inspect(""))
}
