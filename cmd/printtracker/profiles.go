package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/profile"
)

var (
	colorOutput bool
	editValues  profileValues
)

// profileValues holds the flag values accepted by add and update
type profileValues struct {
	nozzle      float64
	layerHeight float64
	lineWidth   float64
	walls       int
	infill      float64
	speed       float64
	calibration float64
	supports    bool
}

func (v *profileValues) register(fs *pflag.FlagSet) {
	ref := profile.Reference()
	fs.Float64Var(&v.nozzle, "nozzle", ref.NozzleDiameter, "nozzle diameter in mm")
	fs.Float64Var(&v.layerHeight, "layer-height", ref.LayerHeight, "layer height in mm")
	fs.Float64Var(&v.lineWidth, "line-width", ref.LineWidth, "line width in mm")
	fs.IntVar(&v.walls, "walls", ref.WallCount, "number of walls")
	fs.Float64Var(&v.infill, "infill", ref.InfillDensity, "infill density (0-1)")
	fs.Float64Var(&v.speed, "speed", ref.PrintSpeedGeneral, "general print speed in mm/s")
	fs.Float64Var(&v.calibration, "calibration", ref.CalibrationFactor, "print time calibration factor")
	fs.BoolVar(&v.supports, "supports", ref.SupportsEnabled, "enable supports")
}

// apply copies every flag the user set onto p
func (v *profileValues) apply(fs *pflag.FlagSet, p *profile.PrinterProfile) {
	if fs.Changed("nozzle") {
		p.NozzleDiameter = v.nozzle
	}
	if fs.Changed("layer-height") {
		p.LayerHeight = v.layerHeight
	}
	if fs.Changed("line-width") {
		p.LineWidth = v.lineWidth
		p.InitialLayerLineWidth = v.lineWidth
	}
	if fs.Changed("walls") {
		p.WallCount = v.walls
	}
	if fs.Changed("infill") {
		p.InfillDensity = v.infill
	}
	if fs.Changed("speed") {
		p.PrintSpeedGeneral = v.speed
	}
	if fs.Changed("calibration") {
		p.CalibrationFactor = v.calibration
	}
	if fs.Changed("supports") {
		p.SupportsEnabled = v.supports
		if v.supports && p.SupportDensity == 0 {
			p.SupportDensity = 0.15
			p.SupportVolumeFactor = 0.2
			p.SupportSpeedEfficiency = 0.9
			p.SupportTravelFactor = 0.2
		}
	}
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage printer profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List printer profiles",
	Args:  cobra.NoArgs,
	Run:   runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [name|id]",
	Short: "Print a profile as YAML",
	Args:  cobra.MaximumNArgs(1),
	Run:   runProfilesShow,
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a profile based on the reference profile",
	Args:  cobra.ExactArgs(1),
	Run:   runProfilesAdd,
}

var profilesUpdateCmd = &cobra.Command{
	Use:   "update <name|id>",
	Short: "Change settings of an existing profile",
	Args:  cobra.ExactArgs(1),
	Run:   runProfilesUpdate,
}

var profilesRemoveCmd = &cobra.Command{
	Use:   "remove <name|id>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	Run:   runProfilesRemove,
}

var profilesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add the profiles stored in a YAML file",
	Args:  cobra.ExactArgs(1),
	Run:   runProfilesImport,
}

var profilesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all user profiles as YAML to stdout",
	Args:  cobra.NoArgs,
	Run:   runProfilesExport,
}

func init() {
	profilesShowCmd.Flags().BoolVar(&colorOutput, "color", false, "syntax highlight the output")
	profilesExportCmd.Flags().BoolVar(&colorOutput, "color", false, "syntax highlight the output")
	editValues.register(profilesAddCmd.Flags())
	editValues.register(profilesUpdateCmd.Flags())

	profilesCmd.AddCommand(profilesListCmd, profilesShowCmd, profilesAddCmd, profilesUpdateCmd,
		profilesRemoveCmd, profilesImportCmd, profilesExportCmd)
	rootCmd.AddCommand(profilesCmd)
}

func mustServices() *services {
	svc, err := loadServices()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	return svc
}

func mustSave(svc *services) {
	if err := svc.saveProfiles(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func runProfilesList(cmd *cobra.Command, args []string) {
	svc := mustServices()

	table := ui.NewTable(30, 36, 8, 8)
	table.Header("Name", "ID", "Layer", "Walls")
	for _, p := range svc.profiles.All() {
		name := p.Name
		if p.IsReference() {
			name += " *"
		}
		table.Row(name, p.ID.String(), fmt.Sprintf("%.2f", p.LayerHeight), fmt.Sprint(p.WallCount))
	}
	ui.PrintInfo(fmt.Sprintf("* built-in, stored profiles: %s", svc.profilePath))
}

func runProfilesShow(cmd *cobra.Command, args []string) {
	svc := mustServices()

	ref := profileRef
	if len(args) == 1 {
		ref = args[0]
	}
	p, err := svc.profiles.Lookup(ref)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	writeYAML([]profile.PrinterProfile{p})
}

func runProfilesAdd(cmd *cobra.Command, args []string) {
	svc := mustServices()

	name := strings.TrimSpace(args[0])
	if _, exists := svc.profiles.FindByName(name); exists {
		ui.PrintError(fmt.Sprintf("a profile named %q already exists", name))
		os.Exit(1)
	}

	p := profile.Derive(name)
	editValues.apply(cmd.Flags(), &p)
	if err := p.Validate(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	if err := svc.profiles.Add(p); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	mustSave(svc)

	ui.PrintSuccess(fmt.Sprintf("added profile %q (%s)", p.Name, p.ID))
}

func runProfilesUpdate(cmd *cobra.Command, args []string) {
	svc := mustServices()

	p, err := svc.profiles.Lookup(args[0])
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	editValues.apply(cmd.Flags(), &p)
	if err := p.Validate(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	if err := svc.profiles.Update(p); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	mustSave(svc)

	ui.PrintSuccess(fmt.Sprintf("updated profile %q", p.Name))
}

func runProfilesRemove(cmd *cobra.Command, args []string) {
	svc := mustServices()

	p, err := svc.profiles.Lookup(args[0])
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	removed, err := svc.profiles.Remove(p.ID)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	if !removed {
		ui.PrintWarning(fmt.Sprintf("profile %q was not stored", p.Name))
		return
	}
	mustSave(svc)

	ui.PrintSuccess(fmt.Sprintf("removed profile %q", p.Name))
}

func runProfilesImport(cmd *cobra.Command, args []string) {
	svc := mustServices()

	imported, err := profile.Load(args[0])
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	added := 0
	for _, p := range imported {
		if err := svc.profiles.Add(p); err != nil {
			ui.PrintWarning(fmt.Sprintf("skipping %q: %v", p.Name, err))
			continue
		}
		added++
	}
	mustSave(svc)

	ui.PrintSuccess(fmt.Sprintf("imported %d of %d profiles", added, len(imported)))
}

func runProfilesExport(cmd *cobra.Command, args []string) {
	svc := mustServices()
	writeYAML(svc.profiles.Custom())
}

func writeYAML(profiles []profile.PrinterProfile) {
	data, err := profile.Marshal(profiles)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	if !colorOutput {
		fmt.Fprint(ui.Out, string(data))
		return
	}
	if err := quick.Highlight(ui.Out, string(data), "yaml", "terminal256", "monokai"); err != nil {
		ui.PrintError(fmt.Sprintf("failed to highlight output: %v", err))
		os.Exit(1)
	}
}
