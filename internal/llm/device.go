package llm

import "os"

// Device is the compute device the model runs on
type Device string

const (
	DeviceCUDA Device = "cuda"
	DeviceCPU  Device = "cpu"
)

// nvidiaDeviceNodes are checked when the device is "auto"
var nvidiaDeviceNodes = []string{"/dev/nvidiactl", "/dev/nvidia0"}

// ResolveDevice maps the configured device to a concrete one. "auto" picks
// cuda when an NVIDIA device node exists and cpu otherwise.
func ResolveDevice(requested string) Device {
	switch requested {
	case string(DeviceCUDA):
		return DeviceCUDA
	case string(DeviceCPU):
		return DeviceCPU
	}
	if acceleratorPresent(nvidiaDeviceNodes) {
		return DeviceCUDA
	}
	return DeviceCPU
}

func acceleratorPresent(nodes []string) bool {
	for _, node := range nodes {
		if _, err := os.Stat(node); err == nil {
			return true
		}
	}
	return false
}
