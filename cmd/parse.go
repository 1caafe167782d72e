package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"voiceorder/internal/model"
	"voiceorder/internal/parser"
)

var (
	parseValidate  bool
	parseHighlight bool
	parseSave      bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [transcript]",
	Short: "Parse a dictated transcript into a structured order",
	Long:  "Normalizes and parses an Italian speech-recognition transcript. The transcript is read from the argument, or from stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		transcript, err := readTranscript(args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(transcript) == "" {
			return eris.New("empty transcript")
		}

		order := parser.ParseTranscript(transcript)

		out := struct {
			Transcript string                    `json:"transcript"`
			Normalized string                    `json:"normalized"`
			Order      *model.ParsedOrder        `json:"order"`
			Customer   *model.MatchResult        `json:"customer,omitempty"`
			Articles   []model.MatchResult       `json:"articles,omitempty"`
			Segments   []model.TranscriptSegment `json:"segments,omitempty"`
			SavedID    string                    `json:"saved_id,omitempty"`
		}{
			Transcript: transcript,
			Normalized: parser.Normalize(transcript),
			Order:      order,
		}

		if parseValidate || parseSave {
			e, err := initEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if parseValidate {
				validation := e.Validator.Order(ctx, order, e.Store)
				out.Order = validation.Order
				out.Customer = validation.Customer
				out.Articles = validation.Articles
				order = validation.Order
			}
			if parseSave {
				saved, err := e.Store.SaveOrder(ctx, transcript, order)
				if err != nil {
					return eris.Wrap(err, "save order")
				}
				out.SavedID = saved.ID
			}
		}

		if parseHighlight {
			out.Segments = parser.Highlight(transcript, order)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(out), "encode output")
	},
}

func readTranscript(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", eris.Wrap(err, "read stdin")
	}
	return string(data), nil
}

func init() {
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "validate entities against the catalog search service")
	parseCmd.Flags().BoolVar(&parseHighlight, "highlight", false, "emit transcript segments with entity annotations")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "persist the parsed order")
	rootCmd.AddCommand(parseCmd)
}
