package procutil

import (
	"os/exec"
	"testing"
	"time"
)

func TestParseStatTrivial(t *testing.T) {
	line := "123 (bash) S 456 789 789 0 -1 4194560 100 0 0 0 0 0 0 0 20 0 1 0"
	info, ok := parseStat(123, line)
	if !ok {
		t.Fatalf("parseStat failed to parse simple line")
	}
	if info.ppid != 456 || info.pgrp != 789 {
		t.Fatalf("parseStat = %+v, want ppid=456 pgrp=789", info)
	}
}

func TestParseStatCommWithParensAndSpaces(t *testing.T) {
	line := "123 (my (weird) proc name) S 456 789 789 0 -1 4194560 100 0 0 0 0 0 0 0 20 0 1 0"
	info, ok := parseStat(123, line)
	if !ok {
		t.Fatalf("parseStat failed on comm with parens")
	}
	if info.ppid != 456 || info.pgrp != 789 {
		t.Fatalf("parseStat = %+v, want ppid=456 pgrp=789", info)
	}
}

func TestParseStatTooShort(t *testing.T) {
	if _, ok := parseStat(1, "1 (x) S"); ok {
		t.Fatalf("parseStat should reject a truncated stat line")
	}
}

func TestDescendantsLeavesFirstOrdering(t *testing.T) {
	procs := []procInfo{
		{pid: 1, ppid: 0, pgrp: 1},
		{pid: 2, ppid: 1, pgrp: 1},
		{pid: 3, ppid: 2, pgrp: 1},
		{pid: 4, ppid: 1, pgrp: 1},
	}
	order := descendantsLeavesFirst(procs, 1)

	pos := map[int]int{}
	for i, pid := range order {
		pos[pid] = i
	}
	if pos[3] >= pos[2] {
		t.Fatalf("pid 3 (child of 2) must be signaled before pid 2: order=%v", order)
	}
	if pos[2] >= pos[1] || pos[4] >= pos[1] {
		t.Fatalf("root pid 1 must be signaled last: order=%v", order)
	}
}

func TestKillProcessTreeKillsRealProcess(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("sleep binary unavailable: %v", err)
	}
	pid := cmd.Process.Pid

	if err := KillProcessTree(pid); err != nil {
		t.Fatalf("KillProcessTree: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("process %d still alive after KillProcessTree", pid)
	}
}

func TestGetForegroundPIDFallsBackWhenAlive(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Skipf("sleep binary unavailable: %v", err)
	}
	defer cmd.Process.Kill()

	pid, ok := GetForegroundPID(cmd.Process.Pid)
	if !ok {
		t.Fatalf("GetForegroundPID(alive pid) should report ok=true")
	}
	if pid == 0 {
		t.Fatalf("GetForegroundPID returned 0 for an alive process")
	}
}

func TestGetForegroundPIDGoneProcess(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Skipf("true binary unavailable: %v", err)
	}
	if _, ok := GetForegroundPID(cmd.Process.Pid); ok {
		t.Fatalf("GetForegroundPID(exited pid) should report ok=false")
	}
}
