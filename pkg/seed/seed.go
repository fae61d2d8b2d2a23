// Package seed loads an initial set of subjects and topics from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/study-sensei/pkg/models"
	"github.com/ekaya-inc/study-sensei/pkg/services"
)

// File is the top-level document of a seed file.
type File struct {
	Subjects []Subject `yaml:"subjects"`
}

// Subject is one seeded subject and its topics.
type Subject struct {
	Name   string  `yaml:"name"`
	Topics []Topic `yaml:"topics"`
}

// Topic is one seeded topic. An omitted confidence means not-confident.
type Topic struct {
	Title      string            `yaml:"title"`
	Confidence models.Confidence `yaml:"confidence"`
}

// Result reports how much a seed load created.
type Result struct {
	Subjects int
	Topics   int
}

// Parse decodes a seed document. Unknown keys and invalid confidence levels
// are errors. An empty document yields an empty File.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// LoadFile parses the seed file at path and applies it through svc.
func LoadFile(ctx context.Context, svc services.StudyService, path string, logger *zap.Logger) (Result, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return Result{}, err
	}

	result, err := Apply(ctx, svc, f)
	if err != nil {
		return result, err
	}

	logger.Info("Loaded seed data",
		zap.String("path", path),
		zap.Int("subjects", result.Subjects),
		zap.Int("topics", result.Topics))
	return result, nil
}

// Apply creates every subject and topic in f. It stops at the first
// invalid entry; entries before it stay created.
func Apply(ctx context.Context, svc services.StudyService, f *File) (Result, error) {
	var result Result
	for i, s := range f.Subjects {
		subject, err := svc.CreateSubject(ctx, services.CreateSubjectInput{Name: s.Name})
		if err != nil {
			return result, fmt.Errorf("seed subject %d: %w", i, err)
		}
		result.Subjects++

		for j, t := range s.Topics {
			_, err := svc.CreateTopic(ctx, services.CreateTopicInput{
				SubjectID:  subject.ID,
				Title:      t.Title,
				Confidence: t.Confidence.String(),
			})
			if err != nil {
				return result, fmt.Errorf("seed subject %d topic %d: %w", i, j, err)
			}
			result.Topics++
		}
	}
	return result, nil
}
