package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"moodspec/internal/domain"
	"moodspec/internal/handoff"
	"moodspec/internal/infra/credentials"
	"moodspec/internal/providers/gemini"
	"moodspec/internal/storage"
	"moodspec/pkg/zip"
)

type analyzer interface {
	Analyze(ctx context.Context, list []domain.VisualAsset, medium domain.Medium, credential string) (*domain.AnalysisResult, error)
}

type previewer interface {
	Generate(ctx context.Context, prompt string, medium domain.Medium, credential string) (string, error)
}

type promptBuilder interface {
	Build(medium domain.Medium, result domain.AnalysisResult) (*handoff.Prompts, error)
}

type resolver interface {
	Resolve(ctx context.Context) (string, credentials.Source, error)
}

type cli struct {
	analyzer  analyzer
	previewer previewer
	builder   promptBuilder
	keys      resolver
	stdout    io.Writer
	stderr    io.Writer
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func (c *cli) credential(ctx context.Context, explicit string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	if c.keys == nil {
		return "", nil
	}
	key, _, err := c.keys.Resolve(ctx)
	return key, err
}

func (c *cli) analyze(ctx context.Context, args []string) error {
	fs := c.flagSet("analyze")
	mediumFlag := fs.String("medium", "slides", "target medium: slides, saas or poster")
	outFlag := fs.String("out", "", "directory to write spec.yaml and analysis.json to")
	jsonFlag := fs.Bool("json", false, "print the result as JSON")
	keyFlag := fs.String("key", "", "Gemini API key (defaults to the resolved key)")
	if err := fs.Parse(args); err != nil {
		return usagef("analyze: %v", err)
	}
	medium, err := domain.ParseMedium(*mediumFlag)
	if err != nil {
		return usagef("analyze: %v", err)
	}
	list := assetsFromArgs(fs.Args())

	credential, err := c.credential(ctx, *keyFlag)
	if err != nil {
		return err
	}
	result, err := c.analyzer.Analyze(ctx, list, medium, credential)
	if err != nil {
		return err
	}

	if *outFlag != "" {
		if err := writeAnalysis(ctx, *outFlag, result); err != nil {
			return err
		}
	}
	if *jsonFlag {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(c.stdout, medium, result)
	return nil
}

// assetsFromArgs treats http(s) arguments as remote images and everything
// else as local files, keeping the argument order.
func assetsFromArgs(args []string) []domain.VisualAsset {
	list := make([]domain.VisualAsset, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		lower := strings.ToLower(arg)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			list = append(list, domain.NewURLAsset(arg))
			continue
		}
		list = append(list, domain.NewFileAsset(arg, ""))
	}
	return list
}

func writeAnalysis(ctx context.Context, dir string, result *domain.AnalysisResult) error {
	store, err := storage.NewFileStore(dir)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if _, err := store.Write(ctx, handoff.AnalysisFile, data); err != nil {
		return err
	}
	_, err = store.Write(ctx, handoff.SpecFile, []byte(result.YAML))
	return err
}

func printResult(w io.Writer, medium domain.Medium, r *domain.AnalysisResult) {
	fmt.Fprintf(w, "Medium:       %s\n", medium.Title())
	fmt.Fprintf(w, "Style:        %s\n", r.Summary.StyleDescription)
	fmt.Fprintf(w, "Mood:         %s\n", strings.Join(r.Summary.MoodKeywords, ", "))
	fmt.Fprintf(w, "Colors:       %s\n", strings.Join(r.Summary.PrimaryColors, " "))
	fmt.Fprintf(w, "Image prompt: %s\n\n", r.ImageGenerationPrompt)
	fmt.Fprintln(w, r.YAML)
}

func (c *cli) preview(ctx context.Context, args []string) error {
	fs := c.flagSet("preview")
	mediumFlag := fs.String("medium", "slides", "target medium: slides, saas or poster")
	promptFlag := fs.String("prompt", "", "image-generation prompt")
	fromFlag := fs.String("from", "", "analysis.json to take the prompt from")
	outFlag := fs.String("out", "preview", "output image path; the extension is added when missing")
	keyFlag := fs.String("key", "", "Gemini API key (defaults to the resolved key)")
	if err := fs.Parse(args); err != nil {
		return usagef("preview: %v", err)
	}
	medium, err := domain.ParseMedium(*mediumFlag)
	if err != nil {
		return usagef("preview: %v", err)
	}
	prompt := *promptFlag
	if prompt == "" && *fromFlag != "" {
		result, err := readAnalysis(*fromFlag)
		if err != nil {
			return err
		}
		prompt = result.ImageGenerationPrompt
	}
	if strings.TrimSpace(prompt) == "" {
		return usagef("preview: -prompt or -from is required")
	}

	credential, err := c.credential(ctx, *keyFlag)
	if err != nil {
		return err
	}
	uri, err := c.previewer.Generate(ctx, prompt, medium, credential)
	if err != nil {
		return err
	}
	mimeType, data, err := gemini.DecodeDataURI(uri)
	if err != nil {
		return err
	}

	out := *outFlag
	if filepath.Ext(out) == "" {
		out += handoff.Extension(mimeType, data)
	}
	store, err := storage.NewFileStore(filepath.Dir(out))
	if err != nil {
		return err
	}
	path, err := store.Write(ctx, filepath.Base(out), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "preview written to %s (%s, %d bytes)\n", path, mimeType, len(data))
	return nil
}

func (c *cli) handoff(args []string) error {
	fs := c.flagSet("handoff")
	mediumFlag := fs.String("medium", "slides", "target medium: slides, saas or poster")
	fromFlag := fs.String("from", "analysis.json", "analysis.json to build the prompt from")
	instructionOnly := fs.Bool("instruction-only", false, "print the instruction without the YAML appendix")
	if err := fs.Parse(args); err != nil {
		return usagef("handoff: %v", err)
	}
	medium, err := domain.ParseMedium(*mediumFlag)
	if err != nil {
		return usagef("handoff: %v", err)
	}
	result, err := readAnalysis(*fromFlag)
	if err != nil {
		return err
	}
	prompts, err := c.builder.Build(medium, *result)
	if err != nil {
		return err
	}
	switch {
	case prompts.Full == "":
		fmt.Fprintln(c.stdout, prompts.ImagePrompt)
	case *instructionOnly:
		fmt.Fprintln(c.stdout, prompts.Instruction)
	default:
		fmt.Fprint(c.stdout, prompts.Full)
	}
	return nil
}

func (c *cli) bundle(args []string) error {
	fs := c.flagSet("bundle")
	mediumFlag := fs.String("medium", "slides", "target medium: slides, saas or poster")
	fromFlag := fs.String("from", "analysis.json", "analysis.json to bundle")
	imageFlag := fs.String("image", "", "optional preview image to include")
	outFlag := fs.String("out", "moodspec.zip", "zip file to write")
	if err := fs.Parse(args); err != nil {
		return usagef("bundle: %v", err)
	}
	medium, err := domain.ParseMedium(*mediumFlag)
	if err != nil {
		return usagef("bundle: %v", err)
	}
	result, err := readAnalysis(*fromFlag)
	if err != nil {
		return err
	}
	prompts, err := c.builder.Build(medium, *result)
	if err != nil {
		return err
	}
	var preview *handoff.Preview
	if *imageFlag != "" {
		data, err := os.ReadFile(*imageFlag)
		if err != nil {
			return fmt.Errorf("read preview: %w", err)
		}
		preview = &handoff.Preview{MIMEType: mimetype.Detect(data).String(), Data: data}
	}
	list, err := handoff.BundleAssets(*result, prompts, preview)
	if err != nil {
		return err
	}
	archive, err := zip.ArchiveAssets(list)
	if err != nil {
		return err
	}
	store, err := storage.NewFileStore(filepath.Dir(*outFlag))
	if err != nil {
		return err
	}
	path, err := store.Write(context.Background(), filepath.Base(*outFlag), archive)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "bundle written to %s (%d files)\n", path, len(list))
	return nil
}

func readAnalysis(path string) (*domain.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis: %w", err)
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", path, err)
	}
	return &result, nil
}
