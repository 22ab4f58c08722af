package devicesim

import (
	"fmt"

	"sihas-gateway/internal/profile"
)

// Image returns a plausible register image for a device model, sized to
// the profile's register count.
func Image(model string) ([]uint16, error) {
	count, err := profile.RegisterCount(model)
	if err != nil {
		return nil, err
	}
	regs := make([]uint16, count)
	switch model {
	case profile.ModelAQM300:
		regs[0] = 231 // 23.1 °C
		regs[1] = 455 // 45.5 %
		regs[2] = 642 // ppm
		regs[3] = 12  // µg/m³
		regs[4] = 18  // µg/m³
		regs[5] = 120 // ppb
		regs[6] = 350 // lx
	case profile.ModelPMM300:
		regs[0] = 2205 // 220.5 V
		regs[1] = 152  // 1.52 A
		regs[2] = 335  // W
		regs[3] = 982  // 98.2 %
		regs[4] = 600  // 60.0 Hz
		regs[6] = 12
		regs[7] = 48
		regs[8] = 102
		regs[9] = 230
		regs[10] = 1520
		regs[11] = 2800
		regs[12] = 2650
		regs[13] = 3100
		regs[16] = 7
		regs[40] = 34464 // lifetime total low word
		regs[41] = 2     // lifetime total high word
	default:
		return nil, fmt.Errorf("no register image for model %s", model)
	}
	return regs, nil
}
