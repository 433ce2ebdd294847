package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvunroll/analysis"
)

func TestDefUseDefAndUsers(t *testing.T) {
	fn := buildLoopFunction()
	du := analysis.NewDefUse(fn)

	def, ok := du.Def(3) // the induction phi
	require.True(t, ok)
	assert.Equal(t, uint32(3), def.ResultID)

	users := du.Users(3)
	assert.Len(t, users, 2, "phi result is used by the comparison and the stepped add")
	assert.Equal(t, 2, du.NumUsers(3))

	assert.Equal(t, 0, du.NumUsers(999), "id with no users reports zero")
}

func TestDefUseReplaceAllUsesWith(t *testing.T) {
	fn := buildLoopFunction()
	du := analysis.NewDefUse(fn)

	du.ReplaceAllUsesWith(3, 42)

	assert.Equal(t, 0, du.NumUsers(3))
	assert.Equal(t, 2, du.NumUsers(42))

	for _, user := range du.Users(42) {
		found := false
		user.ForEachInID(func(id *uint32) {
			if *id == 42 {
				found = true
			}
		})
		assert.True(t, found)
	}
}
