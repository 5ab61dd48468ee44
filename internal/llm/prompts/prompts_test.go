package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapsolve/internal/models"
)

func TestDefault_RendersInitialPrompt(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	system, user, err := set.Render(models.ModeInitial, Data{Language: "golang"})
	require.NoError(t, err)

	assert.Contains(t, system, "competitive programmer")
	assert.Contains(t, user, "Solve it in golang.")
	assert.Contains(t, user, "```json")
	assert.Contains(t, user, "Time complexity:")
}

func TestDefault_RendersDebugChain(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	problem := &models.Problem{
		Statement: "Sum two numbers.",
		Language:  "python",
		Code:      "print(a+b)",
		Attempts: []models.SolveAttempt{
			{Code: "print(int(a)+int(b))"},
			{Code: "print(sum(map(int, input().split())))"},
		},
	}

	_, user, err := set.Render(models.ModeDebug, Data{Language: "python", Problem: problem})
	require.NoError(t, err)

	assert.Contains(t, user, "Sum two numbers.")
	assert.Contains(t, user, "print(a+b)")
	assert.Contains(t, user, "Revision 1:")
	assert.Contains(t, user, "Revision 2:")
	assert.Contains(t, user, "print(sum(map(int, input().split())))")
	assert.NotContains(t, user, "Constraints:")
	assert.Less(t, strings.Index(user, "Revision 1:"), strings.Index(user, "Revision 2:"))
}

func TestRender_Validation(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	_, _, err = set.Render(models.ModeInitial, Data{})
	assert.EqualError(t, err, "language is required")

	_, _, err = set.Render(models.ModeDebug, Data{Language: "go"})
	assert.EqualError(t, err, "debug prompt requires a problem")

	_, _, err = set.Render(models.Mode("review"), Data{Language: "go"})
	assert.Error(t, err)
}

func TestParse_RequiresBothModes(t *testing.T) {
	_, err := Parse([]byte("initial:\n  system: a\n  user: b\n"))
	assert.ErrorContains(t, err, `"debug"`)

	_, err = Parse([]byte("initial: [\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("initial:\n  system: a\n  user: '{{.Nope'\ndebug:\n  system: a\n  user: b\n"))
	assert.ErrorContains(t, err, "failed to parse initial template")
}
