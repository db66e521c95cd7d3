package gpu

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"tubescribe/internal/config"
)

// GPUDetector handles GPU detection for transcription device selection
type GPUDetector struct {
	logger *zap.Logger
}

// GPUInfo contains information about available GPU devices
type GPUInfo struct {
	Available     bool
	DeviceCount   int
	DeviceName    string
	DriverVersion string
}

// NewGPUDetector creates a new GPU detector instance
func NewGPUDetector(logger *zap.Logger) *GPUDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GPUDetector{logger: logger}
}

// DetectGPU detects available NVIDIA GPU devices
func (g *GPUDetector) DetectGPU() *GPUInfo {
	gpuInfo := &GPUInfo{}

	if err := g.detectWithNvidiaSMI(gpuInfo); err != nil {
		g.logger.Debug("nvidia-smi detection failed", zap.Error(err))
		if err := g.detectWithCUDAEnv(gpuInfo); err != nil {
			g.logger.Debug("CUDA environment detection failed", zap.Error(err))
			return gpuInfo
		}
	}

	g.logger.Info("GPU detection completed",
		zap.Bool("available", gpuInfo.Available),
		zap.Int("device_count", gpuInfo.DeviceCount),
		zap.String("device_name", gpuInfo.DeviceName),
		zap.String("driver_version", gpuInfo.DriverVersion))

	return gpuInfo
}

// ResolveDevice maps the configured device to the one the transcription
// engine will actually use: "auto" becomes "cuda" when a GPU is detected
// and "cpu" otherwise; explicit values pass through unchanged.
func (g *GPUDetector) ResolveDevice(device string) string {
	if device != config.DeviceAuto {
		return device
	}

	info := g.DetectGPU()
	if info.Available {
		g.logger.Info("auto device resolved to cuda", zap.String("gpu", info.DeviceName))
		return config.DeviceCUDA
	}
	g.logger.Info("auto device resolved to cpu, no GPU detected")
	return config.DeviceCPU
}

// detectWithNvidiaSMI attempts to detect GPUs using the nvidia-smi command
func (g *GPUDetector) detectWithNvidiaSMI(gpuInfo *GPUInfo) error {
	countCmd := exec.Command("nvidia-smi", "--list-gpus")
	countOutput, err := countCmd.Output()
	if err != nil {
		return fmt.Errorf("nvidia-smi command failed: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(countOutput)), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return fmt.Errorf("no GPUs found by nvidia-smi")
	}

	infoCmd := exec.Command("nvidia-smi", "--query-gpu=name,driver_version", "--format=csv,noheader,nounits", "--id=0")
	infoOutput, err := infoCmd.Output()
	if err != nil {
		return fmt.Errorf("nvidia-smi info query failed: %w", err)
	}

	fields := strings.SplitN(strings.TrimSpace(string(infoOutput)), ",", 2)
	gpuInfo.Available = true
	gpuInfo.DeviceCount = len(lines)
	gpuInfo.DeviceName = strings.TrimSpace(fields[0])
	if len(fields) > 1 {
		gpuInfo.DriverVersion = strings.TrimSpace(fields[1])
	}

	return nil
}

// detectWithCUDAEnv falls back to CUDA environment variables when nvidia-smi
// is unavailable (common inside containers).
func (g *GPUDetector) detectWithCUDAEnv(gpuInfo *GPUInfo) error {
	visible := os.Getenv("CUDA_VISIBLE_DEVICES")
	if visible == "" || visible == "-1" {
		return fmt.Errorf("CUDA_VISIBLE_DEVICES not set")
	}

	devices := strings.Split(visible, ",")
	gpuInfo.Available = true
	gpuInfo.DeviceCount = len(devices)
	gpuInfo.DeviceName = "CUDA device (from environment)"
	return nil
}
