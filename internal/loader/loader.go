// Package loader reads input documents, builds the catalog from their
// records and writes result documents.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Decode parses an input document
func Decode(r io.Reader) (*models.Input, error) {
	var in models.Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode input document: %w", err)
	}
	return &in, nil
}

// DecodeBytes parses an input document held in memory
func DecodeBytes(data []byte) (*models.Input, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeFile parses the input document at path
func DecodeFile(path string) (*models.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input document: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Report summarizes what Load did with the records of a document
type Report struct {
	Movies  int `json:"movies"`
	Shows   int `json:"shows"`
	Actors  int `json:"actors"`
	Users   int `json:"users"`
	Actions int `json:"actions"`
	Skipped int `json:"skipped"`
	// History entries naming titles that are not in the catalog
	UnknownHistory int `json:"unknown_history"`
}

// Load builds a catalog from the records of in. Movies register before shows
// so they lead the catalog order. Invalid or duplicate records are skipped
// with a warning.
func Load(in *models.Input, logger *logging.Logger) (*catalog.Catalog, Report) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	c := catalog.New()
	report := Report{Actions: len(in.Actions)}
	skip := func(kind, key string, err error) {
		report.Skipped++
		logger.WithField("kind", kind).WithField("key", key).WithError(err).Warn("Skipping invalid record")
	}

	for _, m := range in.Movies {
		if err := getValidator().Struct(m); err != nil {
			skip("movie", m.Title, err)
			continue
		}
		if _, err := c.RegisterMovie(m); err != nil {
			skip("movie", m.Title, err)
			continue
		}
		report.Movies++
	}

	for _, s := range in.Shows {
		if err := getValidator().Struct(s); err != nil {
			skip("show", s.Title, err)
			continue
		}
		if _, err := c.RegisterShow(s); err != nil {
			skip("show", s.Title, err)
			continue
		}
		report.Shows++
	}

	for _, u := range in.Users {
		if err := getValidator().Struct(u); err != nil {
			skip("user", u.Username, err)
			continue
		}
		if _, err := c.RegisterUser(u); err != nil {
			skip("user", u.Username, err)
			continue
		}
		report.Users++

		for _, title := range slices.Sorted(maps.Keys(u.History)) {
			if err := c.ApplyHistory(u.Username, title, u.History[title]); err != nil {
				report.UnknownHistory++
				logger.WithField("user", u.Username).WithError(err).Warn("Ignoring history entry")
			}
		}
	}

	for _, a := range in.Actors {
		if err := getValidator().Struct(a); err != nil {
			skip("actor", a.Name, err)
			continue
		}
		if _, err := c.RegisterActor(a); err != nil {
			skip("actor", a.Name, err)
			continue
		}
		report.Actors++
	}

	logger.WithFields(map[string]interface{}{
		"movies":  report.Movies,
		"shows":   report.Shows,
		"actors":  report.Actors,
		"users":   report.Users,
		"skipped": report.Skipped,
	}).Info("Catalog loaded")

	return c, report
}

// Validate checks every record of in and returns one error per problem:
// invalid fields, duplicate keys and history for unknown titles.
func Validate(in *models.Input) error {
	var errs []error
	titles := make(map[string]string)
	check := func(kind, key string, record interface{}) {
		if err := getValidator().Struct(record); err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", kind, key, err))
		}
	}

	for _, m := range in.Movies {
		check("movie", m.Title, m)
		if prev, ok := titles[m.Title]; ok && m.Title != "" {
			errs = append(errs, fmt.Errorf("movie %q: title already used by a %s", m.Title, prev))
		}
		titles[m.Title] = "movie"
	}
	for _, s := range in.Shows {
		check("show", s.Title, s)
		if prev, ok := titles[s.Title]; ok && s.Title != "" {
			errs = append(errs, fmt.Errorf("show %q: title already used by a %s", s.Title, prev))
		}
		titles[s.Title] = "show"
	}

	users := make(map[string]bool)
	for _, u := range in.Users {
		check("user", u.Username, u)
		if users[u.Username] {
			errs = append(errs, fmt.Errorf("user %q: duplicate username", u.Username))
		}
		users[u.Username] = true
		for _, title := range slices.Sorted(maps.Keys(u.History)) {
			if _, ok := titles[title]; !ok {
				errs = append(errs, fmt.Errorf("user %q: history names unknown title %q", u.Username, title))
			}
		}
	}

	actors := make(map[string]bool)
	for _, a := range in.Actors {
		check("actor", a.Name, a)
		if actors[a.Name] {
			errs = append(errs, fmt.Errorf("actor %q: duplicate name", a.Name))
		}
		actors[a.Name] = true
	}

	return errors.Join(errs...)
}

// EncodeResults writes results as an indented JSON array
func EncodeResults(w io.Writer, results []models.Result) error {
	if results == nil {
		results = []models.Result{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// DecodeResults parses a result document
func DecodeResults(r io.Reader) ([]models.Result, error) {
	var results []models.Result
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return results, nil
}

// WriteFile writes the result document to path
func WriteFile(path string, results []models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output document: %w", err)
	}
	if err := EncodeResults(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
