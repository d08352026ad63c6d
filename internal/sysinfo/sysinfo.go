// Package sysinfo probes the host for the details the chat assistant uses
// to tailor shell suggestions.
package sysinfo

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Info is sent to the renderer as the systemInfo event payload.
type Info struct {
	OS             string `json:"os"`
	Arch           string `json:"arch"`
	Distro         string `json:"distro,omitempty"`
	Shell          string `json:"shell,omitempty"`
	PackageManager string `json:"packageManager,omitempty"`
	Hostname       string `json:"hostname,omitempty"`
	KernelVersion  string `json:"kernelVersion,omitempty"`
}

// packageManagers is checked in order; the first binary on PATH wins.
var packageManagers = []struct {
	binary string
	name   string
}{
	{"apt", "apt"},
	{"dnf", "dnf"},
	{"yum", "yum"},
	{"pacman", "pacman"},
	{"zypper", "zypper"},
	{"apk", "apk"},
	{"nix-env", "nix"},
}

// Prober gathers Info. The zero value is not usable; call NewProber.
type Prober struct {
	GOOS     string
	GOARCH   string
	Getenv   func(string) string
	LookPath func(string) (string, error)
	ReadFile func(string) ([]byte, error)
	HostInfo func(context.Context) (*host.InfoStat, error)
}

// NewProber returns a prober for the running system.
func NewProber() *Prober {
	return &Prober{
		GOOS:     runtime.GOOS,
		GOARCH:   runtime.GOARCH,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		ReadFile: os.ReadFile,
		HostInfo: host.InfoWithContext,
	}
}

// Probe never fails: fields that cannot be determined are left empty.
func (p *Prober) Probe(ctx context.Context) Info {
	info := Info{
		OS:    normalizeOS(p.GOOS),
		Arch:  p.GOARCH,
		Shell: p.Getenv("SHELL"),
	}

	var hi *host.InfoStat
	if p.HostInfo != nil {
		if stat, err := p.HostInfo(ctx); err == nil {
			hi = stat
			info.Hostname = stat.Hostname
			info.KernelVersion = stat.KernelVersion
		}
	}

	switch p.GOOS {
	case "linux":
		info.Distro = p.osReleaseName()
		if info.Distro == "" && hi != nil {
			info.Distro = hi.Platform
		}
		for _, pm := range packageManagers {
			if _, err := p.LookPath(pm.binary); err == nil {
				info.PackageManager = pm.name
				break
			}
		}
	case "darwin":
		info.Distro = "macOS"
		if _, err := p.LookPath("brew"); err == nil {
			info.PackageManager = "homebrew"
		}
	default:
		if hi != nil {
			info.Distro = hi.Platform
		}
	}
	return info
}

func (p *Prober) osReleaseName() string {
	data, err := p.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := strings.CutPrefix(line, "NAME="); ok {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

func normalizeOS(goos string) string {
	if goos == "darwin" {
		return "macos"
	}
	return goos
}
