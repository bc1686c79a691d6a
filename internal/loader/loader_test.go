package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

func TestDecodeFile(t *testing.T) {
	in, err := DecodeFile(filepath.Join("testdata", "input.json"))
	require.NoError(t, err)

	assert.Len(t, in.Actors, 2)
	assert.Len(t, in.Users, 2)
	assert.Len(t, in.Movies, 2)
	require.Len(t, in.Shows, 1)
	assert.Len(t, in.Shows[0].Seasons, 2)
	require.Len(t, in.Actions, 5)

	query := in.Actions[3]
	assert.Equal(t, "movies", query.ObjectType)
	assert.Equal(t, []string{"2015"}, query.Filter(models.FilterYear))
	assert.Nil(t, query.Filter(models.FilterGenre))
	assert.Equal(t, 4.0, in.Actions[1].Grade)
	assert.Equal(t, "bob", in.Actions[0].Username)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"movies": [`))
	assert.Error(t, err)

	_, err = DecodeFile(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	in, err := DecodeFile(filepath.Join("testdata", "input.json"))
	require.NoError(t, err)

	c, report := Load(in, nil)

	assert.Equal(t, Report{Movies: 2, Shows: 1, Actors: 2, Users: 2, Actions: 5, UnknownHistory: 1}, report)
	assert.Equal(t, []string{"Fury Road", "Quiet Days", "Long Night"}, c.Order())

	fury, ok := c.Movie("Fury Road")
	require.True(t, ok)
	assert.Equal(t, 2, fury.Views("ana"))

	ana, ok := c.User("ana")
	require.True(t, ok)
	assert.True(t, ana.Premium())
	assert.True(t, ana.IsFavorite("Fury Road"))

	actor, ok := c.Actor("Ann Reed")
	require.True(t, ok)
	assert.Equal(t, 3, actor.AwardCount())
}

func TestLoadSkipsInvalidRecords(t *testing.T) {
	in := &models.Input{
		Movies: []models.MovieInput{
			{Title: "Kept", Duration: 90},
			{Title: "", Duration: 90},
			{Title: "Negative", Duration: -5},
			{Title: "Kept", Duration: 100},
		},
		Shows: []models.ShowInput{
			{Title: "Kept"},
			{Title: "Bad Season", Seasons: []models.SeasonInput{{Duration: -1}}},
		},
		Users:  []models.UserInput{{Username: ""}},
		Actors: []models.ActorInput{{Name: "a"}, {Name: "a"}},
	}

	c, report := Load(in, nil)

	assert.Equal(t, 1, report.Movies)
	assert.Equal(t, 0, report.Shows)
	assert.Equal(t, 1, report.Actors)
	assert.Equal(t, 7, report.Skipped)
	assert.Equal(t, catalog.Stats{Movies: 1, Actors: 1}, c.Stats())
}

func TestValidate(t *testing.T) {
	in, err := DecodeFile(filepath.Join("testdata", "input.json"))
	require.NoError(t, err)

	err = Validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `history names unknown title "Unknown Title"`)

	in.Users[0].History = nil
	assert.NoError(t, Validate(in))

	in.Shows = append(in.Shows, models.ShowInput{Title: "Fury Road"})
	in.Actors = append(in.Actors, models.ActorInput{})
	err = Validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `show "Fury Road": title already used by a movie`)
	assert.Contains(t, err.Error(), "Name")
}

func TestEncodeResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeResults(&buf, []models.Result{{ID: 1, Message: "Query result: []"}}))

	results, err := DecodeResults(&buf)
	require.NoError(t, err)
	assert.Equal(t, []models.Result{{ID: 1, Message: "Query result: []"}}, results)

	buf.Reset()
	require.NoError(t, EncodeResults(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteFile(path, []models.Result{{ID: 2, Message: "ok"}}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	results, err := DecodeResults(f)
	require.NoError(t, err)
	assert.Equal(t, []models.Result{{ID: 2, Message: "ok"}}, results)
}
