// Package procutil walks and terminates process trees and identifies the
// foreground process group of a pty, per §4.2. Linux uses /proc; other
// platforms fall back to `ps`.
package procutil

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// KillGrace is the pause between SIGTERM and SIGKILL escalation.
const KillGrace = 75 * time.Millisecond

// procInfo is one process's pid/ppid/pgrp, however the platform reported it.
type procInfo struct {
	pid, ppid, pgrp int
}

// KillProcessTree enumerates every descendant of rootPID, then signals from
// leaves to root: SIGTERM, a short grace pause, then SIGKILL for survivors.
// Unknown or already-exited pids are skipped rather than erroring, since the
// tree can shrink between enumeration and signaling.
func KillProcessTree(rootPID int) error {
	procs, err := listProcesses()
	if err != nil {
		return err
	}
	order := descendantsLeavesFirst(procs, rootPID)
	for _, pid := range order {
		_ = signalProcess(pid, unix.SIGTERM)
	}
	time.Sleep(KillGrace)
	for _, pid := range order {
		if processAlive(pid) {
			_ = signalProcess(pid, unix.SIGKILL)
		}
	}
	return nil
}

// descendantsLeavesFirst returns rootPID and all its transitive children,
// ordered so that the deepest descendants are signaled before their
// ancestors.
func descendantsLeavesFirst(procs []procInfo, rootPID int) []int {
	children := map[int][]int{}
	for _, p := range procs {
		children[p.ppid] = append(children[p.ppid], p.pid)
	}

	var order []int
	var visit func(pid int)
	visit = func(pid int) {
		for _, c := range children[pid] {
			visit(c)
		}
		order = append(order, pid)
	}
	visit(rootPID)
	return order
}

func processAlive(pid int) bool {
	return signalProcess(pid, unix.Signal(0)) == nil
}

// signalProcess delivers sig directly via unix.Kill rather than
// os.FindProcess().Signal, since the latter's Unix Signal method is just
// a thin wrapper over the same syscall and os.FindProcess always succeeds
// on Unix regardless of whether the pid exists.
func signalProcess(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}

// GetForegroundPID reads the controlling terminal's foreground process
// group for shellPID and returns the first pid that shares it. Falls back
// to shellPID if tpgid is unreadable or zero; returns (0, false) only when
// shellPID itself no longer exists.
func GetForegroundPID(shellPID int) (int, bool) {
	if !processAlive(shellPID) {
		return 0, false
	}
	procs, err := listProcesses()
	if err != nil {
		return shellPID, true
	}
	tpgid := readTPGID(shellPID)
	if tpgid == 0 {
		return shellPID, true
	}
	for _, p := range procs {
		if p.pgrp == tpgid {
			return p.pid, true
		}
	}
	return shellPID, true
}

func listProcesses() ([]procInfo, error) {
	if runtime.GOOS == "linux" {
		return listProcessesLinux()
	}
	return listProcessesPS()
}

func listProcessesLinux() ([]procInfo, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	var out []procInfo
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		raw, err := os.ReadFile("/proc/" + e.Name() + "/stat")
		if err != nil {
			continue
		}
		if info, ok := parseStat(pid, string(raw)); ok {
			out = append(out, info)
		}
	}
	return out, nil
}

// parseStat parses one /proc/<pid>/stat line. The comm field (2nd,
// parenthesized) may itself contain spaces or parentheses, so fields are
// located by splitting after the LAST ')' rather than on whitespace alone.
func parseStat(pid int, line string) (procInfo, bool) {
	closeParen := strings.LastIndex(line, ")")
	if closeParen == -1 || closeParen+2 >= len(line) {
		return procInfo{}, false
	}
	rest := strings.Fields(line[closeParen+2:])
	// rest[0] = state, rest[1] = ppid, rest[2] = pgrp, ..., rest[5] = tpgid
	if len(rest) < 6 {
		return procInfo{}, false
	}
	ppid, err1 := strconv.Atoi(rest[1])
	pgrp, err2 := strconv.Atoi(rest[2])
	if err1 != nil || err2 != nil {
		return procInfo{}, false
	}
	return procInfo{pid: pid, ppid: ppid, pgrp: pgrp}, true
}

// readTPGID reads the controlling terminal's foreground group for pid:
// field 8 of /proc/<pid>/stat on Linux (listProcessesLinux's procInfo
// doesn't carry it — only ppid/pgrp, which every other caller needs), or
// `ps -o tpgid=` elsewhere.
func readTPGID(pid int) int {
	if runtime.GOOS != "linux" {
		out, err := exec.Command("ps", "-o", "tpgid=", "-p", strconv.Itoa(pid)).Output()
		if err != nil {
			return 0
		}
		tpgid, err := strconv.Atoi(strings.TrimSpace(string(out)))
		if err != nil {
			return 0
		}
		return tpgid
	}

	raw, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return 0
	}
	line := string(raw)
	closeParen := strings.LastIndex(line, ")")
	if closeParen == -1 || closeParen+2 >= len(line) {
		return 0
	}
	rest := strings.Fields(line[closeParen+2:])
	if len(rest) < 6 {
		return 0
	}
	tpgid, err := strconv.Atoi(rest[5])
	if err != nil {
		return 0
	}
	return tpgid
}

// listProcessesPS shells out to `ps -A -o pid=,ppid=,pgid=` for platforms
// without /proc (macOS), per §4.2's ps-based fallback.
func listProcessesPS() ([]procInfo, error) {
	out, err := exec.Command("ps", "-A", "-o", "pid=,ppid=,pgid=").Output()
	if err != nil {
		return nil, err
	}
	var procs []procInfo
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		pid, e1 := strconv.Atoi(fields[0])
		ppid, e2 := strconv.Atoi(fields[1])
		pgrp, e3 := strconv.Atoi(fields[2])
		if e1 != nil || e2 != nil || e3 != nil {
			continue
		}
		procs = append(procs, procInfo{pid: pid, ppid: ppid, pgrp: pgrp})
	}
	return procs, nil
}
