package rigkit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/rigkit/pkg/engine"
	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/sceneio"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// setOptions are the changes requested on the command line
type setOptions struct {
	dryRun bool

	character string
	outfitSet string
	outfit    string
	hair      string

	props      []string
	toggles    []string
	ik         []string
	shrinkwrap []string

	perFinger       bool
	showAll         bool
	physics         bool
	speed           string
	cache           string
	renderModifiers bool
}

func newSetCmd(a *app) *cobra.Command {
	opts := &setOptions{}
	cmd := rigCommand(a, &cobra.Command{
		Use:     "set <scene>",
		Short:   MsgSetShort,
		Long:    MsgSetLong,
		Example: MsgSetExample,
		Args:    cobra.ExactArgs(1),
	}, func(cmd *cobra.Command, sess *session, st *engine.RigState, _ []string) error {
		return runSet(a, cmd, sess, st.Rig.Name, opts)
	})

	f := cmd.Flags()
	f.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	f.StringVar(&opts.character, "character", "", MsgFlagCharacter)
	f.StringVar(&opts.outfitSet, "outfit-set", "", MsgFlagOutfitSet)
	f.StringVar(&opts.outfit, "outfit", "", MsgFlagOutfit)
	f.StringVar(&opts.hair, "hair", "", MsgFlagHair)
	f.StringArrayVar(&opts.props, "prop", nil, MsgFlagProp)
	f.StringArrayVar(&opts.toggles, "toggle", nil, MsgFlagToggle)
	f.StringArrayVar(&opts.ik, "ik", nil, MsgFlagIK)
	f.StringArrayVar(&opts.shrinkwrap, "shrinkwrap", nil, MsgFlagWrap)
	f.BoolVar(&opts.perFinger, "per-finger", false, MsgFlagPerFinger)
	f.BoolVar(&opts.showAll, "show-all", false, MsgFlagShowAll)
	f.BoolVar(&opts.physics, "physics", false, MsgFlagPhysics)
	f.StringVar(&opts.speed, "speed", "", MsgFlagSpeed)
	f.StringVar(&opts.cache, "cache", "", MsgFlagCache)
	f.BoolVar(&opts.renderModifiers, "render-modifiers", true, MsgFlagRenderMod)
	return cmd
}

func runSet(a *app, cmd *cobra.Command, sess *session, rig string, opts *setOptions) error {
	logger := logging.WithRig("cmd.set", rig)

	format, err := sceneio.FormatOf(sess.path)
	if err != nil {
		return err
	}
	before, err := sceneio.Marshal(sceneio.Export(sess.scene), format)
	if err != nil {
		return err
	}

	changes, err := applySet(cmd, sess.engine, rig, opts)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return errors.New(errors.ErrInvalidInput, MsgErrNoSetChanges)
	}
	logger.Info().Strs("changes", changes).Msg("applying changes")

	passes, err := sess.graph.Update()
	if err != nil {
		return err
	}
	logger.Debug().Int("passes", passes).Msg("scene settled")

	after, err := sceneio.Marshal(sceneio.Export(sess.scene), format)
	if err != nil {
		return err
	}

	r, err := a.renderer(cmd)
	if err != nil {
		return err
	}
	if string(before) == string(after) {
		return r.RenderMessage(MsgNoChanges)
	}
	if opts.dryRun {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(before)),
			B:        difflib.SplitLines(string(after)),
			FromFile: sess.path,
			ToFile:   sess.path + " (updated)",
			Context:  3,
		})
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to diff scene documents")
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), diff)
		return err
	}
	if err := sceneio.Save(sess.scene, sess.path); err != nil {
		return err
	}
	return r.RenderMessage(fmt.Sprintf(MsgSaved, sess.path))
}

// applySet runs the requested setters in panel order and returns a
// description of each change
func applySet(cmd *cobra.Command, eng *engine.Engine, rig string, opts *setOptions) ([]string, error) {
	var changes []string
	apply := func(desc string, fn func() error) error {
		if err := fn(); err != nil {
			return err
		}
		changes = append(changes, desc)
		return nil
	}
	changed := cmd.Flags().Changed

	if opts.character != "" {
		if err := apply("character="+opts.character, func() error { return eng.SetCharacter(rig, opts.character) }); err != nil {
			return nil, err
		}
	}
	if opts.outfitSet != "" {
		set, ok := types.ParseOutfitSet(opts.outfitSet)
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput, "unknown outfit set %q", opts.outfitSet)
		}
		if err := apply("outfit-set="+opts.outfitSet, func() error { return eng.SetOutfitSet(rig, set) }); err != nil {
			return nil, err
		}
	}
	if opts.outfit != "" {
		if err := apply("outfit="+opts.outfit, func() error { return eng.SetOutfit(rig, opts.outfit) }); err != nil {
			return nil, err
		}
	}
	if opts.hair != "" {
		if err := apply("hair="+opts.hair, func() error { return eng.SetHair(rig, opts.hair) }); err != nil {
			return nil, err
		}
	}

	for _, p := range opts.props {
		key, raw, err := splitAssignment(p, "<scope>.<name>=<value>")
		if err != nil {
			return nil, err
		}
		scope, name, ok := strings.Cut(key, ".")
		if !ok || scope == "" || name == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrAssignment, "<scope>.<name>=<value>", p)
		}
		v, err := parseNumber(raw, p)
		if err != nil {
			return nil, err
		}
		if err := apply(p, func() error { return eng.SetProperty(rig, scope, name, v) }); err != nil {
			return nil, err
		}
	}
	for _, t := range opts.toggles {
		name, raw, err := splitAssignment(t, "<name>=on|off")
		if err != nil {
			return nil, err
		}
		on, err := parseSwitch(raw, t)
		if err != nil {
			return nil, err
		}
		if err := apply(t, func() error { return eng.SetToggle(rig, name, on) }); err != nil {
			return nil, err
		}
	}
	if changed("per-finger") {
		if err := apply("per-finger", func() error { return eng.SetPerFinger(rig, opts.perFinger) }); err != nil {
			return nil, err
		}
	}
	for _, s := range opts.ik {
		slider, raw, err := splitAssignment(s, "<slider>=<value>")
		if err != nil {
			return nil, err
		}
		v, err := parseNumber(raw, s)
		if err != nil {
			return nil, err
		}
		if err := apply(s, func() error { return eng.SetIK(rig, slider, v) }); err != nil {
			return nil, err
		}
	}
	if changed("show-all") {
		if err := apply("show-all", func() error { return eng.SetShowAll(rig, opts.showAll) }); err != nil {
			return nil, err
		}
	}
	if opts.cache != "" {
		start, end, err := parseRange(opts.cache)
		if err != nil {
			return nil, err
		}
		if err := apply("cache="+opts.cache, func() error { return eng.SetCacheRange(rig, start, end) }); err != nil {
			return nil, err
		}
	}
	if opts.speed != "" {
		if err := apply("speed="+opts.speed, func() error { return eng.SetSpeedMultiplier(rig, opts.speed) }); err != nil {
			return nil, err
		}
	}
	if changed("physics") {
		if err := apply("physics", func() error { return eng.SetPhysics(rig, opts.physics) }); err != nil {
			return nil, err
		}
	}
	if changed("render-modifiers") {
		if err := apply("render-modifiers", func() error { return eng.SetRenderModifiers(rig, opts.renderModifiers) }); err != nil {
			return nil, err
		}
	}
	for _, w := range opts.shrinkwrap {
		key, target, err := splitAssignment(w, "<key>=<object>")
		if err != nil {
			return nil, err
		}
		if err := apply(w, func() error { return eng.SetShrinkwrapTarget(rig, key, target) }); err != nil {
			return nil, err
		}
	}
	return changes, nil
}

func splitAssignment(s, want string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", errors.Newf(errors.ErrInvalidInput, MsgErrAssignment, want, s)
	}
	return key, value, nil
}

func parseNumber(raw, arg string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrInvalidInput, "invalid number in %q", arg)
	}
	return v, nil
}

func parseSwitch(raw, arg string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Newf(errors.ErrInvalidInput, MsgErrAssignment, "<name>=on|off", arg)
	}
	return on, nil
}

func parseRange(raw string) (int, int, error) {
	a, b, ok := strings.Cut(raw, ":")
	start, err1 := strconv.Atoi(a)
	end, err2 := strconv.Atoi(b)
	if !ok || err1 != nil || err2 != nil {
		return 0, 0, errors.Newf(errors.ErrInvalidInput, MsgErrAssignment, "<start>:<end>", raw)
	}
	return start, end, nil
}
