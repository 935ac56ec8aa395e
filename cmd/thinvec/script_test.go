package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, script string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	it := newInterpreter(&out)
	defer it.Close()
	err := it.Run(strings.NewReader(script))
	return out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "drain map",
			script: "push 1 2 3 4 5 6 7 8 9 10\ndrain 1 7\nprint\n",
			want:   "drained [2 3 4 5 6 7]\n[1 8 9 10]\n",
		},
		{
			name:   "splice",
			script: "extend 1 2 3 4 5 6\nsplice 1 4 7 8\nprint\n",
			want:   "removed [2 3 4]\n[1 7 8 5 6]\n",
		},
		{
			name:   "pop and remove",
			script: "push 5 6 7\npop\nremove 0\nswap-remove 0\npop\n",
			want:   "7\n5\n6\nempty\n",
		},
		{
			name:   "retain dedup sort",
			script: "# comment\n\npush 4 4 3 8 8 1 2\ndedup\nretain even\nsort\nprint\n",
			want:   "[2 4 8]\n",
		},
		{
			name:   "drain filter",
			script: "push -1 2 -3 4\ndrain-filter neg\nprint\n",
			want:   "drained [-1 -3]\n[2 4]\n",
		},
		{
			name:   "resize truncate",
			script: "push 1\nresize 4 9\nprint\ntruncate 2\nprint\nclear\nprint\n",
			want:   "[1 9 9 9]\n[1 9]\n[]\n",
		},
		{
			name:   "split off",
			script: "push 1 2 3 4\nsplit-off 1\nprint\n",
			want:   "tail [2 3 4]\n[1]\n",
		},
		{
			name:   "capacity",
			script: "reserve-exact 10\npush 1 2\nshrink\nstats\n",
			want:   "",
		},
		{
			name:   "json",
			script: "json\npush 1 2\njson\n",
			want:   "[]\n[1,2]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runScript(t, tt.script)
			require.NoError(t, err)
			if tt.want != "" {
				assert.Equal(t, tt.want, out)
			}
		})
	}
}

func TestRun_Stats(t *testing.T) {
	out, err := runScript(t, "reserve-exact 10\npush 1 2\nstats\nshrink\nstats\n")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "len=2 cap=10 align=8"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "len=2 cap=2 align=8"), lines[1])
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{"unknown op", "push 1\nfrobnicate\n", "line 2: unknown operation \"frobnicate\""},
		{"bad number", "push x\n", "line 1: invalid number \"x\""},
		{"arity", "insert 1\n", "line 1: insert takes 2 argument(s), got 1"},
		{"index panic", "push 1\nremove 3\n", "line 2: thinvec: removal index (is 3) should be < len (is 1)"},
		{"range panic", "push 1 2\ndrain 2 1\n", "line 2: thinvec: slice index starts at 2 but ends at 1"},
		{"capacity overflow", "push 1\nreserve 9223372036854775807\n", "capacity_overflow"},
		{"bad predicate", "retain big\n", "unknown predicate \"big\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runScript(t, tt.script)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_ReserveBeyondMemory(t *testing.T) {
	old := debug.SetMemoryLimit(256 << 20)
	t.Cleanup(func() { debug.SetMemoryLimit(old) })

	out, err := runScript(t, "push 1\nreserve 1000000000000\nprint\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2:")
	assert.Contains(t, err.Error(), "allocation")
	assert.Empty(t, out)
}

func TestRun_ErrorLeavesVector(t *testing.T) {
	var out bytes.Buffer
	it := newInterpreter(&out)
	defer it.Close()

	require.NoError(t, it.Exec("push 1 2 3"))
	require.Error(t, it.Exec("insert 9 0"))
	require.NoError(t, it.Exec("print"))
	assert.Equal(t, "[1 2 3]\n", out.String())
}

func TestRunCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("push 3 1 2\nsort\nprint\n"))
	rootCmd.SetArgs([]string{"run"})
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "[1 2 3]\n", out.String())
}
