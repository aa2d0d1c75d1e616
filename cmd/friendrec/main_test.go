package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

const profilesCSV = `name,interests,friends,age,location,occupation,activities
ana,"music, chess","ben, cara",29,Cairo,Engineer,running
ben,music,"ana, dan",31,Cairo,Designer,
cara,chess,"ana, dan",35,Giza,Engineer,running
dan,"music, chess","ben, cara, eve",30,Cairo,Engineer,"running, yoga"
eve,,dan,52,Alexandria,Teacher,
fay,,,23,Giza,Student,
`

func writeProfiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.csv")
	require.NoError(t, os.WriteFile(path, []byte(profilesCSV), 0o600))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o600))
	t.Setenv("CONFIG_PATH", cfgPath)
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRecommend_Blend(t *testing.T) {
	data := writeProfiles(t)

	out, err := run(t, "recommend", "ana", "--data", data, "--mode", "blend", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "MUTUALFRIENDS")
	assert.Contains(t, out, "dan")
	assert.Contains(t, out, "ben, cara")
	assert.Contains(t, out, "1 of 1 candidates (blend)")
}

func TestRecommend_ProbabilityJSON(t *testing.T) {
	data := writeProfiles(t)

	out, err := run(t, "recommend", "ana", "--data", data, "--kind", "logistic", "--json")
	require.NoError(t, err)

	var decoded struct {
		UserID          string
		Mode            domain.ScoringMode
		Recommendations []struct {
			UserID string
			Score  float64
		}
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, domain.ScoringProbability, decoded.Mode)
	require.Len(t, decoded.Recommendations, 1)
	assert.Equal(t, "dan", decoded.Recommendations[0].UserID)
	assert.GreaterOrEqual(t, decoded.Recommendations[0].Score, 0.0)
	assert.LessOrEqual(t, decoded.Recommendations[0].Score, 1.0)
}

func TestRecommend_Errors(t *testing.T) {
	data := writeProfiles(t)

	_, err := run(t, "recommend", "zed", "--data", data, "--mode", "blend")
	require.ErrorIs(t, err, domain.ErrUnknownUser)

	_, err = run(t, "recommend", "ana", "--data", data, "--kind", "quantum")
	require.Error(t, err)

	_, err = run(t, "recommend", "--data", data)
	require.Error(t, err)
}

func TestTrain(t *testing.T) {
	data := writeProfiles(t)

	out, err := run(t, "train", "--data", data, "--kind", "decision_tree")
	require.NoError(t, err)
	assert.Contains(t, out, "decision_tree")
	assert.Contains(t, out, "Test accuracy")
}

func TestSimilarity(t *testing.T) {
	data := writeProfiles(t)

	out, err := run(t, "similarity", "ana", "dan", "--data", data, "--mode", "blend")
	require.NoError(t, err)
	assert.Contains(t, out, "mutualFriends")
	assert.Contains(t, out, "Similarity")
	assert.NotContains(t, out, "Probability")

	out, err = run(t, "similarity", "ana", "dan", "--data", data, "--mode", "blend", "--probability")
	require.NoError(t, err)
	assert.Contains(t, out, "Probability")
}

func TestGenerate(t *testing.T) {
	writeProfiles(t)
	output := filepath.Join(t.TempDir(), "generated.csv")

	out, err := run(t, "generate", "--users", "25", "--friends", "3", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 25 users")

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 26, len(strings.Split(strings.TrimSpace(string(raw)), "\n")))

	out, err = run(t, "recommend", "USR-00001", "--data", output, "--mode", "blend")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
