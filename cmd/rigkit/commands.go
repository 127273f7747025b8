package rigkit

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rigkit/internal/version"
	"github.com/arthur-debert/rigkit/pkg/engine"
	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/expr"
	"github.com/arthur-debert/rigkit/pkg/output"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/visibility"
)

// rigCommand wires the pieces every rig command shares: a scene argument,
// the --rig flag and a loaded session
func rigCommand(a *app, cmd *cobra.Command, run func(cmd *cobra.Command, sess *session, st *engine.RigState, args []string) error) *cobra.Command {
	var rigName string
	cmd.GroupID = "rig"
	cmd.Flags().StringVarP(&rigName, "rig", "r", "", MsgFlagRig)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		sess, err := a.open(args[0])
		if err != nil {
			return err
		}
		st, err := sess.pick(rigName)
		if err != nil {
			return err
		}
		return run(cmd, sess, st, args[1:])
	}
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return rigCommand(a, &cobra.Command{
		Use:   "status <scene>",
		Short: MsgStatusShort,
		Args:  cobra.ExactArgs(1),
	}, func(cmd *cobra.Command, sess *session, st *engine.RigState, _ []string) error {
		rep, err := statusReport(sess, st.Rig)
		if err != nil {
			return err
		}
		r, err := a.renderer(cmd)
		if err != nil {
			return err
		}
		return r.Render(rep)
	})
}

func statusReport(sess *session, rig *scene.Rig) (*output.Report, error) {
	sel, err := sess.engine.Selection(rig.Name)
	if err != nil {
		return nil, err
	}
	settings, err := sess.engine.Settings(rig.Name)
	if err != nil {
		return nil, err
	}
	toggles, err := sess.engine.Toggles(rig.Name)
	if err != nil {
		return nil, err
	}

	rep := &output.Report{Title: rig.Name}
	rep.Section("Selection").
		Add("character", sel.Character, output.StateNone).
		Add("outfit set", string(sel.OutfitSet), output.StateNone).
		Add("outfit", sel.Outfit, output.StateNone).
		Add("hair", sel.Hair, output.StateNone)

	if len(toggles) > 0 {
		sec := rep.Section("Toggles")
		for _, t := range toggles {
			sec.Add(t.Name, onOff(t.On), output.OnOff(t.On))
		}
	}

	sec := rep.Section("Settings").
		Add("show all", onOff(settings.ShowAll), output.OnOff(settings.ShowAll)).
		Add("physics", onOff(settings.Physics.Enabled), output.OnOff(settings.Physics.Enabled)).
		Add("cloth cache", fmt.Sprintf("%d..%d", settings.Physics.CacheStart, settings.Physics.CacheEnd), output.StateNone).
		Add("render modifiers", onOff(settings.RenderModifiers), output.OnOff(settings.RenderModifiers)).
		Add("per finger IK", onOff(settings.IK.PerFinger), output.OnOff(settings.IK.PerFinger))
	for _, name := range sortedKeys(settings.IK.Sliders) {
		sec.AddNested(1, name, strconv.FormatFloat(settings.IK.Sliders[name], 'f', 2, 64), output.StateNone)
	}
	for _, key := range sortedKeys(settings.Shrinkwrap) {
		sec.Add("shrinkwrap "+key, settings.Shrinkwrap[key], output.StateNone)
	}

	objects := rep.Section("Objects")
	addObjects(objects, rig.Children, 0, func(o *scene.Object) (string, output.State) {
		visible := !o.HideViewport()
		return visibilityText(visible), output.Visibility(visible)
	})
	return rep, nil
}

func newResolveCmd(a *app) *cobra.Command {
	return rigCommand(a, &cobra.Command{
		Use:   "resolve <scene>",
		Short: MsgResolveShort,
		Args:  cobra.ExactArgs(1),
	}, func(cmd *cobra.Command, sess *session, st *engine.RigState, _ []string) error {
		sel, err := sess.engine.Selection(st.Rig.Name)
		if err != nil {
			return err
		}
		resolver := visibility.New(st.Rig, sel, a.cfg.Naming)

		rep := &output.Report{Title: st.Rig.Name}
		sec := rep.Section("Visibility")
		addObjects(sec, st.Rig.Children, 0, func(o *scene.Object) (string, output.State) {
			switch res := resolver.ResolveObject(o); res {
			case visibility.True:
				return res.String(), output.StateVisible
			case visibility.False:
				return res.String(), output.StateHidden
			default:
				return res.String(), output.StateNone
			}
		})

		r, err := a.renderer(cmd)
		if err != nil {
			return err
		}
		return r.Render(rep)
	})
}

func newTogglesCmd(a *app) *cobra.Command {
	return rigCommand(a, &cobra.Command{
		Use:   "toggles <scene>",
		Short: MsgTogglesShort,
		Args:  cobra.ExactArgs(1),
	}, func(cmd *cobra.Command, sess *session, st *engine.RigState, _ []string) error {
		toggles, err := sess.engine.Toggles(st.Rig.Name)
		if err != nil {
			return err
		}
		r, err := a.renderer(cmd)
		if err != nil {
			return err
		}
		if len(toggles) == 0 {
			return r.RenderMessage(MsgNoToggles)
		}
		rep := &output.Report{Title: st.Rig.Name}
		sec := rep.Section("Toggles")
		for _, t := range toggles {
			sec.Add(t.Name, onOff(t.On), output.OnOff(t.On))
		}
		return r.Render(rep)
	})
}

func newEvalCmd(a *app) *cobra.Command {
	return rigCommand(a, &cobra.Command{
		Use:   "eval <scene> <expression>",
		Short: MsgEvalShort,
		Long: `Eval evaluates an expression the way visibility rules do. Names resolve to
the selection (Character, Outfit, Hair), then outfit properties, character
properties, rig data and rig extras.`,
		Example: `  rigkit eval scene.yaml 'Gloves > 0 and Character == "Ciri"'`,
		Args:    cobra.ExactArgs(2),
	}, func(cmd *cobra.Command, sess *session, st *engine.RigState, args []string) error {
		sel, err := sess.engine.Selection(st.Rig.Name)
		if err != nil {
			return err
		}
		resolver := visibility.New(st.Rig, sel, a.cfg.Naming)
		env := expr.Chain(resolver.Env(), expr.ScopeEnv{st.Rig.Data, st.Rig.Extras})

		v, err := expr.Evaluate(args[0], env)
		if err != nil {
			return err
		}
		r, err := a.renderer(cmd)
		if err != nil {
			return err
		}
		return r.RenderMessage(v.String())
	})
}

func newFramesCmd(a *app) *cobra.Command {
	var from, to int
	cmd := rigCommand(a, &cobra.Command{
		Use:   "frames <scene>",
		Short: MsgFramesShort,
		Long:  MsgFramesLong,
		Args:  cobra.ExactArgs(1),
	}, func(cmd *cobra.Command, sess *session, st *engine.RigState, _ []string) error {
		if to < from {
			return errors.Newf(errors.ErrInvalidInput, MsgErrFrameRange, from, to)
		}
		rep := &output.Report{Title: st.Rig.Name}
		prev := hidden(st.Rig)
		for frame := from; frame <= to; frame++ {
			sess.graph.SetFrame(frame)
			if _, err := sess.graph.Update(); err != nil {
				return err
			}
			next := hidden(st.Rig)
			var sec *output.Section
			st.Rig.Walk(func(o *scene.Object) bool {
				if next[o.Name] == prev[o.Name] {
					return true
				}
				if sec == nil {
					sec = rep.Section(fmt.Sprintf(MsgFrameChanges, frame))
				}
				sec.Add(o.Name, visibilityText(!next[o.Name]), output.Visibility(!next[o.Name]))
				return true
			})
			prev = next
		}

		r, err := a.renderer(cmd)
		if err != nil {
			return err
		}
		if len(rep.Sections) == 0 {
			return r.RenderMessage(MsgNoChanges)
		}
		return r.Render(rep)
	})
	cmd.Flags().IntVar(&from, "from", 1, MsgFlagFrom)
	cmd.Flags().IntVar(&to, "to", 250, MsgFlagTo)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(rigkit completion bash)

Zsh:
  $ rigkit completion zsh > "${fpath[1]}/_rigkit"

Fish:
  $ rigkit completion fish | source

PowerShell:
  PS> rigkit completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
			return err
		},
	}
}

func addObjects(sec *output.Section, objects []*scene.Object, depth int, value func(*scene.Object) (string, output.State)) {
	for _, o := range objects {
		if !o.Alive() {
			continue
		}
		v, state := value(o)
		sec.AddNested(depth, o.Name, v, state)
		addObjects(sec, o.Children, depth+1, value)
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func visibilityText(visible bool) string {
	if visible {
		return "visible"
	}
	return "hidden"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
