package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteEventTypes(t *testing.T) {
	tests := []struct {
		name       string
		toComplete string
		flagVals   []string
		want       []string
	}{
		{
			name:       "empty input returns all types",
			toComplete: "",
			want:       []string{"match_ended", "match_found", "roster"},
		},
		{
			name:       "prefix mat filters to match types",
			toComplete: "mat",
			want:       []string{"match_ended", "match_found"},
		},
		{
			name:       "prefix match_f filters to match_found",
			toComplete: "match_f",
			want:       []string{"match_found"},
		},
		{
			name:       "prefix ro filters to roster",
			toComplete: "ro",
			want:       []string{"roster"},
		},
		{
			name:       "comma prefix preserves already typed values",
			toComplete: "match_found,ro",
			want:       []string{"match_found,roster"},
		},
		{
			name:       "excludes already typed values",
			toComplete: "match_found,ma",
			want:       []string{"match_found,match_ended"},
		},
		{
			name:       "empty after comma returns remaining types",
			toComplete: "match_found,",
			want:       []string{"match_found,match_ended", "match_found,roster"},
		},
		{
			name:       "excludes values from flag",
			toComplete: "ma",
			flagVals:   []string{"match_ended"},
			want:       []string{"match_found"},
		},
		{
			name:       "case insensitive matching",
			toComplete: "MAT",
			want:       []string{"match_ended", "match_found"},
		},
		{
			name:       "trims whitespace",
			toComplete: "  mat  ",
			want:       []string{"match_ended", "match_found"},
		},
		{
			name:       "no match returns empty",
			toComplete: "xyz",
			want:       nil,
		},
		{
			name:       "all types used returns empty",
			toComplete: "match_ended,match_found,roster,",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.Flags().StringSlice("include-types", nil, "")

			if tt.flagVals != nil {
				if err := cmd.Flags().Set("include-types", strings.Join(tt.flagVals, ",")); err != nil {
					t.Fatalf("failed to set flag: %v", err)
				}
			}

			complete := completeEventTypes("include-types")
			got, dir := complete(cmd, nil, tt.toComplete)

			expectedDir := cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
			if dir != expectedDir {
				t.Errorf("directive = %v, want %v", dir, expectedDir)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("candidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventTypeFlagsHaveCompletion(t *testing.T) {
	for _, cmd := range []*cobra.Command{watchCmd, eventsCmd} {
		for _, flag := range []string{"include-types", "exclude-types"} {
			t.Run(cmd.Name()+" "+flag, func(t *testing.T) {
				complete, ok := cmd.GetFlagCompletionFunc(flag)
				if !ok {
					t.Fatalf("no completion registered for --%s", flag)
				}
				got, _ := complete(cmd, nil, "ro")
				if !reflect.DeepEqual(got, []string{"roster"}) {
					t.Errorf("candidates = %v, want [roster]", got)
				}
			})
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	t.Cleanup(func() { completionCmd.SetOut(nil) })

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			completionCmd.SetOut(&buf)
			if err := completionCmd.RunE(completionCmd, []string{shell}); err != nil {
				t.Fatalf("completion %s error = %v", shell, err)
			}
			if !strings.Contains(buf.String(), "matchwatch") {
				t.Errorf("completion %s script does not mention matchwatch", shell)
			}
		})
	}
}
