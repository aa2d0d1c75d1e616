package profilecsv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

const sample = `name,interests,friends,age,location,occupation,activities
ana,"music, hiking",ben,29,Cairo,Engineer,"running, chess"
ben,music,"ana, cara",31,Cairo,Designer,
cara,,ben,40,Giza,Engineer,chess
`

func TestRead(t *testing.T) {
	profiles, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, domain.Profile{
		ID:         "ana",
		Age:        29,
		Location:   "Cairo",
		Occupation: "Engineer",
		Interests:  []string{"music", "hiking"},
		Activities: []string{"running", "chess"},
		Friends:    []string{"ben"},
	}, profiles[0])

	assert.Equal(t, []string{"ana", "cara"}, profiles[1].Friends)
	assert.Empty(t, profiles[1].Activities)
	assert.NotNil(t, profiles[1].Activities)
	assert.Empty(t, profiles[2].Interests)
}

func TestRead_ColumnOrderFollowsHeader(t *testing.T) {
	input := "age,name,location,occupation,friends,interests,activities\n22,dina,Alex,Nurse,,reading,\n"
	profiles, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "dina", profiles[0].ID)
	assert.Equal(t, 22, profiles[0].Age)
	assert.Equal(t, []string{"reading"}, profiles[0].Interests)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "empty input"},
		{name: "missing column", input: "name,age\nana,3\n", want: "missing column"},
		{name: "malformed age", input: strings.Join(Header, ",") + "\nana,,,old,Cairo,x,\n", want: "row 2"},
		{name: "negative age", input: strings.Join(Header, ",") + "\nana,,,1,Cairo,x,\nben,,,-4,Cairo,x,\n", want: "row 3"},
		{name: "empty name", input: strings.Join(Header, ",") + "\n,,,1,Cairo,x,\n", want: "empty name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteThenRead(t *testing.T) {
	original, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))
	assert.True(t, strings.HasPrefix(buf.String(), "name,interests,friends,age,location,occupation,activities\n"))

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, original, again)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []domain.Profile{{ID: "ana", Age: 29, Friends: []string{"ben"}}}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "ana", decoded[0]["name"])
	assert.Equal(t, []any{}, decoded[0]["interests"])
	assert.Equal(t, []any{"ben"}, decoded[0]["friends"])
}
