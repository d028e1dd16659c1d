package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

type checkResponse struct {
	Status string      `json:"status"`
	Data   CheckResult `json:"data"`
}

func decodeCheck(t *testing.T, out string) checkResponse {
	t.Helper()
	var resp checkResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func TestCheckEntity(t *testing.T) {
	out, err := runCommand(t, "json", "check", "testdata/shop.yaml",
		"--class", "Book", "--values", "testdata/book.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeCheck(t, out)
	assert.Equal(t, "failed", resp.Status)
	assert.Equal(t, KindEntity, resp.Data.Kind)
	assert.Equal(t, 2, resp.Data.Rejected)

	require.Len(t, resp.Data.Assignments, 6)
	sku := resp.Data.Assignments[0]
	assert.False(t, sku.OK)
	assert.Contains(t, sku.Error, "NOT_WRITEABLE")
	color := resp.Data.Assignments[5]
	assert.False(t, color.OK)
	assert.Contains(t, color.Error, "UNKNOWN_PROPERTY")

	assert.Equal(t, 15.5, resp.Data.Snapshot["price"])
	assert.Equal(t, []any{"go", "sql"}, resp.Data.Snapshot["tags"])
	assert.Equal(t, "978-0134190440", resp.Data.Snapshot["isbn"])
	assert.NotContains(t, resp.Data.Snapshot, "sku")

	assert.Equal(t, []string{"price"}, resp.Data.Changed)
}

func TestCheckEntityText(t *testing.T) {
	out, err := runCommand(t, "text", "check", "testdata/shop.yaml",
		"--class", "Book", "--values", "testdata/book.yaml")
	require.Error(t, err)

	assert.Contains(t, out, "entity Book\n")
	assert.Contains(t, out, "  rejected sku: NOT_WRITEABLE")
	assert.Contains(t, out, "  ok       price\n")
	assert.Contains(t, out, `  tags = ["go","sql"]`)
	assert.Contains(t, out, "changed: [price]\n")
	assert.Contains(t, out, "2 rejected\n")
}

func TestCheckValueObject(t *testing.T) {
	out, err := runCommand(t, "json", "check", "testdata/money.yaml",
		"--class", "Money", "--values", "testdata/money_values.yaml", "--kind", KindValue)
	require.NoError(t, err)

	resp := decodeCheck(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Zero(t, resp.Data.Rejected)
	assert.Equal(t, map[string]any{"amount": float64(100), "currency": "EUR"}, resp.Data.Snapshot)
	assert.Empty(t, resp.Data.Changed)
}

func TestCheckValueObjectWriteOnce(t *testing.T) {
	out, err := runCommand(t, "json", "check", "testdata/money.yaml",
		"--class", "Money", "--values", "testdata/money_twice.yaml", "--kind", KindValue)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeCheck(t, out)
	require.Len(t, resp.Data.Assignments, 2)
	assert.True(t, resp.Data.Assignments[0].OK)
	assert.Contains(t, resp.Data.Assignments[1].Error, "ALREADY_SET")
	assert.Equal(t, float64(100), resp.Data.Snapshot["amount"])
}

func TestCheckPlainAllowsOverwrite(t *testing.T) {
	out, err := runCommand(t, "json", "check", "testdata/money.yaml",
		"--class", "Money", "--values", "testdata/money_twice.yaml", "--kind", KindPlain)
	require.NoError(t, err)

	resp := decodeCheck(t, out)
	assert.Equal(t, float64(200), resp.Data.Snapshot["amount"])
	assert.Nil(t, resp.Data.Changed)
}

func TestCheckTypeRejection(t *testing.T) {
	values := filepath.Join(t.TempDir(), "values.yaml")
	writeFile(t, values, "amount: lots\n")

	out, err := runCommand(t, "json", "check", "testdata/money.yaml",
		"--class", "Money", "--values", values, "--kind", KindPlain)
	require.Error(t, err)

	resp := decodeCheck(t, out)
	require.Len(t, resp.Data.Assignments, 1)
	assert.False(t, resp.Data.Assignments[0].OK)
	assert.NotEmpty(t, resp.Data.Assignments[0].Error)
}

func TestCheckInvalidKind(t *testing.T) {
	out, err := runCommand(t, "text", "check", "testdata/money.yaml",
		"--class", "Money", "--values", "testdata/money_values.yaml", "--kind", "record")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "invalid kind")
}

func TestCheckUnreadableValues(t *testing.T) {
	out, err := runCommand(t, "json", "check", "testdata/money.yaml",
		"--class", "Money", "--values", "testdata/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValues, resp.Error.Code)
}

func TestReadValues(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{"mapping_keeps_order", "b: 1\na: 2\n", []string{"b", "a"}, false},
		{"sequence_allows_repeats", "- a: 1\n- a: 2\n", []string{"a", "a"}, false},
		{"empty", "", nil, false},
		{"comments_only", "# nothing to apply\n", nil, false},
		{"null_document", "~\n", nil, false},
		{"scalar", "42\n", nil, true},
		{"sequence_of_scalars", "- 1\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			writeFile(t, path, tt.content)

			got, err := readValues(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, a := range got {
				names = append(names, a.Property)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
