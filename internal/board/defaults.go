package board

const (
	// GCCBinVar overrides the compiler toolchain directory on every board.
	GCCBinVar = "GCC_BIN"
	// LLVMBinVar overrides the binutils directory on every board.
	LLVMBinVar = "LLVM_BIN"

	// DefaultSecondaryArtifact is the flashable binary produced by the packager.
	DefaultSecondaryArtifact = "firmware.bin"

	pioPackages = "$HOME/.platformio/packages/"
	defaultLLVM = "/usr/lib/llvm-13/bin"
)

// DefaultSubBuildCommand is the relink recipe invocation.
var DefaultSubBuildCommand = []string{"make"}

// defaultBoards is the built-in board table. Only the data differs per board.
var defaultBoards = []Board{
	{
		Name:              "due",
		Toolchain:         gcc(pioPackages + "toolchain-gccarmnoneeabi/bin"),
		Binutils:          llvm(),
		DeviceLib:         deviceLib("ARDUINO_SAM", pioPackages+"framework-arduino-sam"),
		DeviceLibSubdir:   "variants/arduino_due_x",
		SecondaryArtifact: DefaultSecondaryArtifact,
		RelinkEnabled:     true,
	},
	{
		Name:              "adafruit_metro_m0",
		Toolchain:         gcc(pioPackages + "toolchain-gccarmnoneeabi@1.90201.191206/bin"),
		Binutils:          llvm(),
		DeviceLib:         deviceLib("CMSIS_LIB", pioPackages+"framework-cmsis@2.50400.181126/CMSIS/Lib"),
		DeviceLibSubdir:   "GCC",
		SecondaryArtifact: DefaultSecondaryArtifact,
		RelinkEnabled:     false,
	},
	{
		// 1.50 ships libarm_cortexM0l_math.a, newer toolchain packages do not.
		Name:              "teensylc",
		Toolchain:         gcc(pioPackages + "toolchain-gccarmnoneeabi@1.50401.190816/bin"),
		Binutils:          llvm(),
		DeviceLib:         deviceLib("ARDUINO_TEENSY", pioPackages+"framework-arduinoteensy"),
		DeviceLibSubdir:   "cores/teensy3",
		SecondaryArtifact: "firmware.hex",
		RelinkEnabled:     false,
	},
}

// DefaultRegistry returns a registry holding the built-in boards.
func DefaultRegistry() *Registry {
	boards := make([]Board, 0, len(defaultBoards))
	for _, b := range defaultBoards {
		b.SubBuildCommand = append([]string(nil), DefaultSubBuildCommand...)
		boards = append(boards, b)
	}

	return NewRegistry(boards...)
}

func gcc(def string) LocationSpec {
	return LocationSpec{
		Role:        RoleToolchain,
		OverrideVar: GCCBinVar,
		Default:     def,
	}
}

func llvm() LocationSpec {
	return LocationSpec{
		Role:            RoleBinutils,
		OverrideVar:     LLVMBinVar,
		Default:         defaultLLVM,
		RequireAbsolute: true,
	}
}

func deviceLib(overrideVar, def string) LocationSpec {
	return LocationSpec{
		Role:            RoleDeviceLib,
		OverrideVar:     overrideVar,
		Default:         def,
		RequireAbsolute: true,
	}
}
