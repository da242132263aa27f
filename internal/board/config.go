package board

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexandremahdhaoui/ez-relink/pkg/flaterrors"
	"sigs.k8s.io/yaml"
)

// ConfigPath is the default path of the project's board overlay file.
const ConfigPath = ".relink.yaml"

// ----------------------------------------------------- PROJECT CONFIG --------------------------------------------- //

// Config is the on-disk overlay applied on top of the built-in board table.
//
// Example:
//
//	boards:
//	  - name: teensylc
//	    relinkEnabled: true
//	  - name: feather_m4
//	    toolchain: {overrideVar: GCC_BIN, default: /opt/gcc-arm/bin}
//	    binutils: {overrideVar: LLVM_BIN, default: /usr/lib/llvm-15/bin}
//	    deviceLib: {overrideVar: CMSIS_LIB, default: /opt/cmsis/Lib}
type Config struct {
	Boards []Overlay `json:"boards"`
}

// Overlay changes an existing board or declares a new one. Unset fields keep
// the existing value.
type Overlay struct {
	Name string `json:"name"`

	Toolchain *LocationSpec `json:"toolchain,omitempty"`
	Binutils  *LocationSpec `json:"binutils,omitempty"`
	DeviceLib *LocationSpec `json:"deviceLib,omitempty"`

	DeviceLibSubdir   *string  `json:"deviceLibSubdir,omitempty"`
	SecondaryArtifact string   `json:"secondaryArtifact,omitempty"`
	SubBuildCommand   []string `json:"subBuildCommand,omitempty"`
	RelinkEnabled     *bool    `json:"relinkEnabled,omitempty"`
}

var errReadingConfig = errors.New("reading board config")

// ReadConfig reads the overlay file at path. A missing file yields an empty
// Config, not an error.
func ReadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, flaterrors.Join(err, errReadingConfig)
	}

	out := Config{} //nolint:exhaustruct // unmarshal

	if err := yaml.UnmarshalStrict(b, &out); err != nil {
		return Config{}, flaterrors.Join(err, fmt.Errorf("in %s", path), errReadingConfig) //nolint:err113
	}

	return out, nil
}

var (
	errApplyingConfig  = errors.New("applying board config")
	errMissingName     = errors.New("board name must not be empty")
	errMissingLocation = errors.New("new board must declare toolchain, binutils and deviceLib")
	errMissingVar      = errors.New("location must declare an overrideVar")
	errMissingDefault  = errors.New("location must declare a default")
)

// Apply merges cfg into r. It validates every overlay before touching r, so a
// failing config leaves the registry unchanged.
func (cfg Config) Apply(r *Registry) error {
	merged := make([]Board, 0, len(cfg.Boards))
	errs := make([]error, 0)

	for i, o := range cfg.Boards {
		b, err := o.merge(r)
		if err != nil {
			errs = append(errs, flaterrors.Join(fmt.Errorf("boards[%d] (%s)", i, o.Name), err)) //nolint:err113
			continue
		}

		merged = append(merged, b)
	}

	if len(errs) > 0 {
		return flaterrors.Join(append(errs, errApplyingConfig)...)
	}

	for _, b := range merged {
		r.Put(b)
	}

	return nil
}

func (o Overlay) merge(r *Registry) (Board, error) {
	if o.Name == "" {
		return Board{}, errMissingName
	}

	b, exists := r.Lookup(o.Name)
	if !exists {
		if o.Toolchain == nil || o.Binutils == nil || o.DeviceLib == nil {
			return Board{}, errMissingLocation
		}

		b = Board{
			Name:              o.Name,
			SecondaryArtifact: DefaultSecondaryArtifact,
			SubBuildCommand:   append([]string(nil), DefaultSubBuildCommand...),
		}
	}

	var err error
	if b.Toolchain, err = mergeLocation(b.Toolchain, o.Toolchain, RoleToolchain); err != nil {
		return Board{}, err
	}
	if b.Binutils, err = mergeLocation(b.Binutils, o.Binutils, RoleBinutils); err != nil {
		return Board{}, err
	}
	if b.DeviceLib, err = mergeLocation(b.DeviceLib, o.DeviceLib, RoleDeviceLib); err != nil {
		return Board{}, err
	}

	if o.DeviceLibSubdir != nil {
		b.DeviceLibSubdir = *o.DeviceLibSubdir
	}
	if o.SecondaryArtifact != "" {
		b.SecondaryArtifact = o.SecondaryArtifact
	}
	if len(o.SubBuildCommand) > 0 {
		b.SubBuildCommand = append([]string(nil), o.SubBuildCommand...)
	}
	if o.RelinkEnabled != nil {
		b.RelinkEnabled = *o.RelinkEnabled
	}

	return b, nil
}

func mergeLocation(current LocationSpec, override *LocationSpec, role Role) (LocationSpec, error) {
	if override == nil {
		return current, nil
	}

	out := *override
	out.Role = role

	if out.OverrideVar == "" {
		return LocationSpec{}, flaterrors.Join(fmt.Errorf("role %s", role), errMissingVar) //nolint:err113
	}
	if out.Default == "" {
		return LocationSpec{}, flaterrors.Join(fmt.Errorf("role %s", role), errMissingDefault) //nolint:err113
	}

	return out, nil
}

// LoadRegistry returns the built-in registry with the overlay at path applied.
func LoadRegistry(path string) (*Registry, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}

	r := DefaultRegistry()
	if err := cfg.Apply(r); err != nil {
		return nil, err
	}

	return r, nil
}
