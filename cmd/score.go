package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/okian/roommatch/internal/domain/model"
	"github.com/okian/roommatch/internal/domain/scoring"
)

var errMissingProfile = errors.New("both --a and --b are required")

func newScoreCmd() *cobra.Command {
	var (
		pathA, pathB string
		explain      bool
	)
	cmd := &cobra.Command{
		Use:   "score --a alice.yaml --b bob.yaml",
		Short: "Score two profiles read from YAML or JSON files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pathA == "" || pathB == "" {
				return errMissingProfile
			}
			a, err := loadProfile(pathA)
			if err != nil {
				return err
			}
			b, err := loadProfile(pathB)
			if err != nil {
				return err
			}
			return writeScore(cmd.OutOrStdout(), a, b, explain)
		},
	}
	cmd.Flags().StringVar(&pathA, "a", "", "first profile file")
	cmd.Flags().StringVar(&pathB, "b", "", "second profile file")
	cmd.Flags().BoolVar(&explain, "explain", false, "include the per-factor breakdown")
	return cmd
}

// loadProfile reads a profile file. YAML is a superset of JSON so one
// parser covers both.
func loadProfile(path string) (model.Profile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return model.Profile{}, fmt.Errorf("load %s: %w", path, err)
	}
	var p model.Profile
	if err := k.UnmarshalWithConf("", &p, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return model.Profile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

type explainedScore struct {
	scoring.Result
	Factors []scoring.FactorScore `json:"factors"`
}

func writeScore(w io.Writer, a, b model.Profile, explain bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if !explain {
		return enc.Encode(scoring.Score(a, b))
	}
	bd := scoring.Explain(a, b)
	return enc.Encode(explainedScore{Result: bd.Result(), Factors: bd.Factors})
}
