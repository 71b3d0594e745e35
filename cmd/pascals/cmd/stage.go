package cmd

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pascals/pkg/compiler"
	"pascals/pkg/diag"
	"pascals/pkg/golden"
	"pascals/pkg/render"
	"pascals/pkg/utils"
)

// autoOutput is the --output value when the flag is given without a path.
const autoOutput = "auto"

// contextWindow is how many lines around an error are shown.
const contextWindow = 1

// stageFlags are shared by lex, parse and analyze.
type stageFlags struct {
	check  bool
	output string
	watch  bool
	format string
}

func (f *stageFlags) bind(cmd *cobra.Command, formats bool) {
	fl := cmd.Flags()
	fl.BoolVar(&f.check, "check", false, "compare the output with ../expected/<name>.txt")
	fl.StringVarP(&f.output, "output", "o", "", "save the output; --output=PATH picks the file (default ../output/<name>.<ext>)")
	fl.Lookup("output").NoOptDefVal = autoOutput
	fl.BoolVarP(&f.watch, "watch", "w", false, "run again whenever a source file changes")
	if formats {
		fl.StringVarP(&f.format, "format", "f", "", "output format: text, json or yaml (default from config)")
	}
}

// job describes what one stage command prints.
type job struct {
	stage  compiler.Stage
	ext    func(render.Format) string
	render func(*compiler.Result, render.Format) (string, error)

	// preface prints extra output ahead of the stage output; may be nil.
	preface func(w io.Writer, res *compiler.Result)
	success string
}

func (a *app) runStage(cmd *cobra.Command, f *stageFlags, j job, files []string) error {
	name := f.format
	if name == "" {
		name = a.cfg.Format
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return err
	}

	failed := false
	for i, b := range a.buildAll(j, format, files) {
		if !a.emit(cmd, f, j, format, files[i], b) {
			failed = true
		}
	}
	if f.watch {
		return a.watch(cmd.Context(), cmd.OutOrStdout(), files, func(path string) {
			a.emit(cmd, f, j, format, path, a.build(j, format, path))
		})
	}
	if failed {
		return errReported
	}
	return nil
}

// built is the compiled and rendered form of one file.
type built struct {
	res  *compiler.Result
	text string
	err  error
}

func (a *app) build(j job, format render.Format, path string) built {
	res, err := compiler.CompileFile(path, j.stage, compiler.Options{
		Vocabulary: a.cfg.Vocabulary,
		Validate:   a.cfg.Validate,
		Logger:     a.log,
	})
	if err != nil {
		return built{res: res, err: err}
	}
	text, err := j.render(res, format)
	return built{res: res, text: text, err: err}
}

// buildAll compiles files concurrently. Results keep the order of files.
func (a *app) buildAll(j job, format render.Format, files []string) []built {
	out := make([]built, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			out[i] = a.build(j, format, path)
			return nil
		})
	}
	g.Wait()
	return out
}

// emit prints, checks or saves one built file. It reports whether
// everything succeeded.
func (a *app) emit(cmd *cobra.Command, f *stageFlags, j job, format render.Format, path string, b built) bool {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if b.err != nil {
		a.report(errOut, b.err)
		if b.res != nil {
			a.sourceContext(errOut, b.res.Source, b.err)
		}
		return false
	}
	if j.preface != nil {
		j.preface(out, b.res)
	}

	ok := true
	if f.check {
		expected := utils.ExpectedPath(path, ".txt")
		if format != render.FormatText {
			expected = utils.ExpectedPath(path, j.ext(format))
		}
		rep, err := golden.CompareFile(expected, b.text)
		if err != nil {
			a.report(errOut, err)
			ok = false
		} else {
			if err := rep.Write(out, a.styles.verdict); err != nil {
				a.report(errOut, err)
			}
			ok = rep.Pass()
		}
	}
	if f.output != "" {
		dest := f.output
		if dest == autoOutput {
			dest = a.outputPath(path, j.ext(format))
		}
		if err := utils.WriteFile(dest, []byte(b.text)); err != nil {
			a.report(errOut, err)
			return false
		}
		fmt.Fprintf(out, "Output saved to: %s\n", dest)
	}
	if !f.check && f.output == "" {
		fmt.Fprint(out, b.text)
	}
	if ok && j.success != "" {
		fmt.Fprintf(out, "\n%s %s\n", a.styles.verdict(true, "[SUCCESS]"), j.success)
	}
	return ok
}

func (a *app) outputPath(source, ext string) string {
	if a.cfg.OutputDir != "" {
		return utils.OutputPathIn(a.cfg.OutputDir, source, ext)
	}
	return utils.OutputPath(source, ext)
}

// report prints err to w, styling the kind tag of compiler errors.
func (a *app) report(w io.Writer, err error) {
	var de *diag.Error
	if errors.As(err, &de) {
		tag := a.styles.render(a.styles.kind, "["+de.Kind.String()+"]")
		fmt.Fprintf(w, "%s %s at %s\n", tag, de.Msg, de.Pos)
		return
	}
	fmt.Fprintf(w, "%s %v\n", a.styles.render(a.styles.kind, "Error:"), err)
}

// sourceContext prints the source lines around a compiler error.
func (a *app) sourceContext(w io.Writer, src string, err error) {
	var de *diag.Error
	if !errors.As(err, &de) {
		return
	}
	if ctx := diag.Context(src, de.Pos, contextWindow); ctx != "" {
		fmt.Fprint(w, a.styles.render(a.styles.muted, strings.TrimSuffix(ctx, "\n"))+"\n")
	}
}

// extFor maps a format to a file extension, using text for the text form.
func extFor(text string) func(render.Format) string {
	return func(f render.Format) string {
		switch f {
		case render.FormatJSON:
			return ".json"
		case render.FormatYAML:
			return ".yaml"
		}
		return text
	}
}
