// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dump

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dump-curator/pkg/types"
)

const sampleDump = `-- MySQL dump 10.13
DROP TABLE IF EXISTS ` + "`witze`" + `;
INSERT INTO ` + "`witze`" + ` (` + "`id`, `veri`, `votes`, `user`, `datum`, `witz`" + `) VALUES
(1, 1, 5, 'anna', '2009-03-01', 'Erster Witz'),
(2, 0, 0, 'bert', '2009-03-02', 'Zweiter
mit Zeilenumbruch'),(3, 1, 12, 'carl', '2009-03-03', 'Dritter');
`

func collect(text string) []types.RawRecord {
	return slices.Collect(Records(text))
}

func TestRecords(t *testing.T) {
	recs := collect(sampleDump)
	require.Len(t, recs, 3)

	assert.Equal(t, types.RawRecord{
		ID: 1, Verified: 1, Votes: 5, Author: "anna", Date: "2009-03-01", Body: "Erster Witz",
	}, recs[0])
	assert.Equal(t, "Zweiter\nmit Zeilenumbruch", recs[1].Body)
	assert.Equal(t, 0, recs[1].Verified)
	assert.Equal(t, 12, recs[2].Votes)
	assert.Equal(t, "Dritter", recs[2].Body)
}

func TestRecordsEscapedQuotes(t *testing.T) {
	tests := []struct {
		name     string
		dump     string
		wantRaw  string
		wantBody string
	}{
		{
			name:     "backslash escape",
			dump:     `(7, 1, 0, 'u', 'd', 'Er sagt: \'Hallo\'')`,
			wantRaw:  `Er sagt: \'Hallo\'`,
			wantBody: "Er sagt: 'Hallo'",
		},
		{
			name:     "doubled quotes",
			dump:     `(7, 1, 0, 'u', 'd', 'Er sagt: ''Hallo''')`,
			wantRaw:  `Er sagt: ''Hallo''`,
			wantBody: "Er sagt: 'Hallo'",
		},
		{
			name:     "escaped backslash before closing quote",
			dump:     `(7, 1, 0, 'u', 'd', 'C:\\')`,
			wantRaw:  `C:\\`,
			wantBody: `C:\\`,
		},
		{
			name:     "empty body",
			dump:     `(7, 1, 0, 'u', 'd', '')`,
			wantRaw:  "",
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := collect(tt.dump)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.wantRaw, recs[0].Body)
			assert.Equal(t, tt.wantBody, Unescape(recs[0].Body))
		})
	}
}

func TestRecordsDoNotStraddleBoundaries(t *testing.T) {
	text := `(1, 1, 0, 'a', 'b', 'x ''quoted'''),(2, 1, 0, 'a', 'b', 'it\'s'),(3, 1, 0, 'a', 'b', 'z')`
	recs := collect(text)
	require.Len(t, recs, 3)

	bodies := make([]string, len(recs))
	for i, r := range recs {
		bodies[i] = Unescape(r.Body)
	}
	assert.Equal(t, []string{"x 'quoted'", "it's", "z"}, bodies)
}

func TestRecordsSkipsNoise(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"no tuples", "CREATE TABLE witze (id int);", 0},
		{"wrong arity", "(1, 1, 'only three')", 0},
		{"missing space after comma", "(1,1,0,'a','b','c')", 0},
		{"id overflows int", "(99999999999999999999, 1, 0, 'a', 'b', 'c')", 0},
		{"noise around a tuple", "garbage (1, 1, 0, 'a', 'b', 'c') more garbage", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.text))
		})
	}
}

func TestRecordsRestartable(t *testing.T) {
	seq := Records(sampleDump)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
}

func TestRecordsStopsEarly(t *testing.T) {
	var ids []int
	for rec := range Records(sampleDump) {
		ids = append(ids, rec.ID)
		if len(ids) == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, ids)
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`\'a\'`, "'a'"},
		{"''a''", "'a'"},
		{`mixed \' and ''`, "mixed ' and '"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Unescape(tt.in))
		})
	}
}

func TestReadDump(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadDump(filepath.Join(dir, "nope.sql"))
		require.ErrorIs(t, err, ErrInputMissing)
	})

	t.Run("replaces invalid utf-8", func(t *testing.T) {
		path := filepath.Join(dir, "bad.sql")
		require.NoError(t, os.WriteFile(path, []byte("ab\xffcd"), 0o644))

		text, err := ReadDump(path)
		require.NoError(t, err)
		assert.Equal(t, "ab\uFFFDcd", text)
	})

	t.Run("reads valid text unchanged", func(t *testing.T) {
		path := filepath.Join(dir, "ok.sql")
		require.NoError(t, os.WriteFile(path, []byte("Grüße"), 0o644))

		text, err := ReadDump(path)
		require.NoError(t, err)
		assert.Equal(t, "Grüße", text)
	})
}
