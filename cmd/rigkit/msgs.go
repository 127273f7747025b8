package rigkit

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Drive customizable character rigs"
	MsgStatusShort     = "Show the selection, toggles, settings and objects of a rig"
	MsgResolveShort    = "Show the visibility decision for every object of a rig"
	MsgEvalShort       = "Evaluate an expression against a rig's properties"
	MsgSetShort        = "Change a rig and write the scene back"
	MsgTogglesShort    = "List the toggles of the current selection"
	MsgFramesShort     = "Step through frames and report visibility changes"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display the authoring guide topics, or one topic by name."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgSaved         = "Saved %s"
	MsgNoChanges     = "No changes."
	MsgNoToggles     = "No toggles for the current selection."
	MsgFrameChanges  = "frame %d"
	MsgVersionFormat = "rigkit version %s\n"

	// Error messages
	MsgErrNoRig        = "scene %q has no rigs"
	MsgErrPickRig      = "scene %q has several rigs, pick one with --rig: %s"
	MsgErrAssignment   = "expected %s, got %q"
	MsgErrFrameRange   = "frame range %d..%d is empty"
	MsgErrNoSetChanges = "nothing to set, see 'rigkit set --help'"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Configuration file (default is $XDG_CONFIG_HOME/rigkit/config.toml)"
	MsgFlagFormat    = "Output format: auto, terminal, text or json"
	MsgFlagRig       = "Rig to work on, required when the scene holds several"
	MsgFlagDryRun    = "Print the changes as a diff instead of writing them"
	MsgFlagCharacter = "Select a character"
	MsgFlagOutfitSet = "Select the outfit set: character, generic or all"
	MsgFlagOutfit    = "Select an outfit"
	MsgFlagHair      = "Select a hairstyle"
	MsgFlagProp      = "Set a numeric property, <scope>.<name>=<value> (repeatable)"
	MsgFlagToggle    = "Switch a toggle, <name>=on|off (repeatable)"
	MsgFlagIK        = "Move an FK/IK slider, <slider>=<0..1> (repeatable)"
	MsgFlagPerFinger = "Route finger IK per finger"
	MsgFlagShowAll   = "Show every object regardless of visibility rules"
	MsgFlagPhysics   = "Switch physics simulation on or off"
	MsgFlagSpeed     = "One-shot cloth speed multiplier expression"
	MsgFlagCache     = "Cloth cache range, <start>:<end>"
	MsgFlagRenderMod = "Switch solidify, bevel and subsurf modifiers"
	MsgFlagWrap      = "Point a shrinkwrap constraint at an object, <key>=<object> (repeatable)"
	MsgFlagFrom      = "First frame"
	MsgFlagTo        = "Last frame"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/set-long.txt
	msgSetLongRaw string
	MsgSetLong    = strings.TrimSpace(msgSetLongRaw)

	//go:embed msgs/set-example.txt
	msgSetExampleRaw string
	MsgSetExample    = strings.TrimRight(msgSetExampleRaw, "\n")

	//go:embed msgs/frames-long.txt
	msgFramesLongRaw string
	MsgFramesLong    = strings.TrimSpace(msgFramesLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
