package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath("simple_and.yaml")})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "firstName = ? and lastName = ?\nexpression_0 = Test1\nexpression_1 = Test2\n", buf.String())
}

func TestCompileNestedDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--mapper", "upper_snake", "--placeholder", "named", "--parameter", "filter", docPath("nested.yaml")})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Equal(t, `NAME = :filter_0 and ( VIEW_ID = :filter_1 or VIEW_ID = :filter_2 and not ( OWNED_BY_ACCESS_AREA_ID in ( :filter_3_0, :filter_3_1, :filter_3_2 ) and VALID = :filter_4 ) or ( LAST_MODIFIED_DATE >= :filter_5 and VIEW_COUNT between :filter_6_0 and :filter_6_1 ) ) or OWNED_BY_USER_ID = :filter_7
filter_0 = Test
filter_1 = Bla
filter_2 = Blub
filter_3_0 = 12
filter_3_1 = 1
filter_3_2 = 9
filter_4 = true
filter_5 = 2014-03-07 16:45:00 +0000 UTC
filter_6_0 = 4
filter_6_1 = 99
filter_7 = 42
`, buf.String())
}

func TestCompileDocumentJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--placeholder", "dollar", docPath("group.json")})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status  string            `json:"status"`
		Data    CompilationResult `json:"data"`
		TraceID string            `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, "firstName = $1 or firstName = $2 and ( lastName = $3 and married in ( $4, $5 ) )", resp.Data.SQL)
	assert.Equal(t, []Binding{
		{Name: "expression_0", Value: "Herbert"},
		{Name: "expression_1", Value: "Hubert"},
		{Name: "expression_2", Value: "Blub"},
		{Name: "expression_3_0", Value: "wald"},
		{Name: "expression_3_1", Value: "traut"},
	}, resp.Data.Bindings)
}

func TestCompileBaseQuery(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--base-query", "SELECT * FROM people WHERE deleted = 0",
		"--operator", "or",
		"--parameter", "people",
		docPath("negated.yml"),
	})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM people WHERE deleted = 0 or not ( firstName = ? )\npeople_0 = Test1\n", buf.String())
}

func TestCompileOutputToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "filter.sql")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath("simple_and.yaml"), "--output", outputFile})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Wrote statement to "+outputFile)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, "firstName = ? and lastName = ?\nexpression_0 = Test1\nexpression_1 = Test2\n", string(data))
}

func TestCompileInvalidTree(t *testing.T) {
	path := writeDoc(t, "no_value.yaml", "filter: {attribute: age, type: int, op: eq}\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNoValue)
	assert.Contains(t, buf.String(), "CONDITION_NO_VALUE")
	assert.NotContains(t, buf.String(), "age =")
}

func TestCompileInvalidPlaceholder(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--placeholder", "colon", docPath("simple_and.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "colon")
}

func TestCompileMissingDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, buf.String(), "document not found")
}
