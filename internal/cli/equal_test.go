package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleAndJSON = `{
  "filter": {
    "chain": [
      {"attribute": "firstName", "type": "string", "op": "eq", "value": "Test1"},
      {"and": {"attribute": "lastName", "type": "string", "op": "eq", "value": "Test2"}}
    ]
  }
}
`

func TestEqualDocuments(t *testing.T) {
	other := writeDoc(t, "simple_and.json", simpleAndJSON)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewEqualCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath("simple_and.yaml"), other})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "are equal")
}

func TestEqualDocumentsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEqualCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath("group.json"), docPath("group.json")})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Data EqualityResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Data.Equal)
	assert.Equal(t, resp.Data.Fingerprints[0], resp.Data.Fingerprints[1])
	assert.Empty(t, resp.Data.Diff)
}

func TestEqualDocumentsDiffer(t *testing.T) {
	other := writeDoc(t, "other.yaml", `filter:
  all:
    - {attribute: firstName, type: string, op: eq, value: Test1}
    - {attribute: lastName, type: string, op: eq, value: Other}
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewEqualCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath("simple_and.yaml"), other})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "differ")
	assert.Contains(t, output, `"VALUE:Test2"`)
	assert.Contains(t, output, `"VALUE:Other"`)
	assert.NotContains(t, output, `"ATTRIBUTE:lastName"`)
}

func TestEqualDocumentsDifferJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewEqualCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath("simple_and.yaml"), docPath("negated.yml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string         `json:"status"`
		Data   EqualityResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Data.Equal)
	assert.NotEqual(t, resp.Data.Fingerprints[0], resp.Data.Fingerprints[1])
	assert.Contains(t, resp.Data.Diff, "NEGATE")
}

func TestEqualMissingDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewEqualCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath("simple_and.yaml"), "/nonexistent/b.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestEqualRequiresTwoArguments(t *testing.T) {
	cmd := NewEqualCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{docPath("simple_and.yaml")})

	assert.Error(t, cmd.Execute())
}
