package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/propkit/internal/model"
	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/value"
)

// Container kinds accepted by --kind.
const (
	KindEntity = "entity"
	KindValue  = "value"
	KindPlain  = "plain"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Database string
	Class    string
	Values   string
	Kind     string
}

// Assignment is one value applied from the values file.
type Assignment struct {
	Property string `json:"property"`
	Value    any    `json:"value"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// CheckResult is the check command's payload.
type CheckResult struct {
	Class       string         `json:"class"`
	Kind        string         `json:"kind"`
	Assignments []Assignment   `json:"assignments"`
	Rejected    int            `json:"rejected"`
	Snapshot    map[string]any `json:"snapshot"`
	Changed     []string       `json:"changed,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [schema]",
		Short: "Apply values to a class instance and report rejections",
		Long: `Build an instance of a class and apply the values from a YAML file in
order, reporting every rejected assignment and the final state.

The values file is either a mapping (property: value) or a sequence of
mappings, which allows assigning the same property more than once.

Exits with status 1 if any value was rejected.

Example:
  propkit check ./people.yaml --class Person --values ./ada.yaml
  propkit check --db ./catalog.db --class Money --values ./m.yaml --kind value`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runCheck(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "read classes from a SQLite catalog")
	cmd.Flags().StringVar(&opts.Class, "class", "", "class to instantiate (required)")
	cmd.Flags().StringVar(&opts.Values, "values", "", "YAML file of values to apply (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", KindEntity, "container kind (entity|value|plain)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("values")

	return cmd
}

// instance is the container surface check needs from every kind.
type instance interface {
	Set(name string, v value.Value) error
	Snapshot() map[string]value.Value
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if !slices.Contains([]string{KindEntity, KindValue, KindPlain}, opts.Kind) {
		return fail(f, ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid kind %q: must be entity, value or plain", opts.Kind), nil)
	}

	src, err := openSource(cmd.Context(), path, opts.Database)
	if err != nil {
		return fail(f, ExitCommandError, "", "failed to load schema", err)
	}
	defer src.Close()

	class, ok := src.Schema.Class(opts.Class)
	if !ok {
		return fail(f, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("class %q not found", opts.Class), nil)
	}

	assignments, err := readValues(opts.Values)
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeValues, "failed to read values", err)
	}

	reg := newRegistry(src, &registry.Recorder{}, logger)
	withReg := model.WithRegistry(reg)

	var (
		inst   instance
		entity *model.Entity
	)
	switch opts.Kind {
	case KindEntity:
		entity, err = model.NewEntity(nil, class, withReg)
		inst = entity
	case KindValue:
		inst, err = model.NewValueObject(nil, class, withReg)
	default:
		inst, err = model.New(nil, class, withReg)
	}
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeResolve, fmt.Sprintf("failed to resolve class %q", opts.Class), err)
	}

	result := CheckResult{Class: class.Name, Kind: opts.Kind}
	for _, a := range assignments {
		v, err := value.FromGo(a.Value)
		if err == nil {
			err = inst.Set(a.Property, v)
		}
		if err != nil {
			a.Error = err.Error()
			result.Rejected++
			f.VerboseLog("Rejected %s: %v", a.Property, err)
		} else {
			a.OK = true
		}
		result.Assignments = append(result.Assignments, a)
	}

	result.Snapshot = make(map[string]any)
	for name, v := range inst.Snapshot() {
		result.Snapshot[name] = value.ToGo(v)
	}
	if entity != nil {
		result.Changed = entity.ChangedProperties()
	}

	status := "ok"
	if result.Rejected > 0 {
		status = "failed"
	}
	if err := f.Render(status, result, func(w io.Writer) error {
		return writeCheckText(w, result, inst.Snapshot())
	}); err != nil {
		return err
	}

	if result.Rejected > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d value(s) rejected", result.Rejected))
	}
	return nil
}

// readValues decodes a values file, keeping document order.
func readValues(path string) ([]Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return nil, nil
	}
	switch root.Kind {
	case yaml.MappingNode:
		return mappingAssignments(root)
	case yaml.SequenceNode:
		var out []Assignment
		for _, item := range root.Content {
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: sequence items must be mappings", item.Line)
			}
			as, err := mappingAssignments(item)
			if err != nil {
				return nil, err
			}
			out = append(out, as...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: values must be a mapping or a sequence of mappings", root.Line)
	}
}

func mappingAssignments(n *yaml.Node) ([]Assignment, error) {
	var out []Assignment
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var decoded any
		if err := val.Decode(&decoded); err != nil {
			return nil, fmt.Errorf("line %d: %w", val.Line, err)
		}
		out = append(out, Assignment{Property: key.Value, Value: decoded})
	}
	return out, nil
}

func writeCheckText(w io.Writer, result CheckResult, snapshot map[string]value.Value) error {
	fmt.Fprintf(w, "%s %s\n", result.Kind, result.Class)
	for _, a := range result.Assignments {
		if a.OK {
			fmt.Fprintf(w, "  ok       %s\n", a.Property)
		} else {
			fmt.Fprintf(w, "  rejected %s: %s\n", a.Property, a.Error)
		}
	}

	fmt.Fprintln(w, "state:")
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s = %s\n", name, renderValue(snapshot[name]))
	}
	if result.Changed != nil {
		fmt.Fprintf(w, "changed: %v\n", result.Changed)
	}
	_, err := fmt.Fprintf(w, "%d rejected\n", result.Rejected)
	return err
}

// renderValue prints v as canonical JSON, falling back to its kind for
// values that have no JSON form.
func renderValue(v value.Value) string {
	data, err := value.MarshalCanonical(v)
	if err != nil {
		return "<" + value.KindOf(v) + ">"
	}
	return string(data)
}
