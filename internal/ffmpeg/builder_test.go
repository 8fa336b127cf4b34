package ffmpeg

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hkteamnoob/naeonm/internal/planner"
	"github.com/hkteamnoob/naeonm/internal/probe"
)

func TestBuild_MetadataSkeleton(t *testing.T) {
	streams := []probe.StreamRecord{
		{Index: 0, Type: probe.CodecVideo, Codec: "h264"},
		{Index: 1, Type: probe.CodecAudio, Codec: "aac", Language: "eng", HasLanguage: true},
		{Index: 2, Type: probe.CodecSubtitle, Codec: "webvtt"},
	}
	plan, ok := planner.PlanMetadata("/dl/demo.mp4", streams, "Demo")
	if !ok {
		t.Fatal("expected plan")
	}

	got, err := Build("xtra", plan, 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{
		"xtra", "-hide_banner", "-loglevel", "error", "-progress", "pipe:1",
		"-i", "/dl/demo.mp4",
		"-map_metadata", "-1", "-c", "copy",
		"-metadata", "title=Demo",
		"-metadata", "OFFICIAL_SITE=TELEGRAM/@FiLiMHOUSE",
		"-metadata", "Encoded by=",
		"-metadata", "NOTES=",
		"-map", "0:0", "-metadata:s:v:0", "title=Demo",
		"-map", "0:1", "-metadata:s:a:0", "title=Demo", "-metadata:s:a:0", "language=eng",
		"-threads", "4",
		"/dl/demo.mp4.temp.mkv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build:\n got %q\nwant %q", got, want)
	}
}

func TestBuild_WatermarkSkeleton(t *testing.T) {
	plan, err := planner.PlanWatermark("/dl/clip.mkv", 8, "K", planner.DefaultWatermarkStyle())
	if err != nil {
		t.Fatal(err)
	}
	got, err := Build("ffmpeg", plan, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "ffmpeg" || got[len(got)-1] != "/dl/clip.mkv.temp.mkv" {
		t.Errorf("unexpected ends: %q", got)
	}
	joined := strings.Join(got, " ")
	if !strings.Contains(joined, "-i /dl/clip.mkv -vf drawtext=") {
		t.Errorf("filter not placed after input: %s", joined)
	}
	if !strings.Contains(joined, "-threads 2 /dl/clip.mkv.temp.mkv") {
		t.Errorf("threads not before output: %s", joined)
	}
}

func TestBuild_AttachmentSkeleton(t *testing.T) {
	plan := planner.PlanAttachment("/dl/movie.mkv", "/tmp/thumb.png")
	got, err := Build("xtra", plan, 8)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"xtra", "-y", "-i", "/dl/movie.mkv",
		"-attach", "/tmp/thumb.png",
		"-metadata:s:t", "mimetype=image/png",
		"-c", "copy", "-map", "0",
		"/dl/movie.mkv.temp.mkv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build:\n got %q\nwant %q", got, want)
	}
}

func TestBuild_EmptyPlan(t *testing.T) {
	for _, plan := range []*planner.Plan{nil, {Kind: planner.KindMetadata, InputPath: "a"}} {
		if _, err := Build("ffmpeg", plan, 1); !errors.Is(err, ErrEmptyPlan) {
			t.Errorf("Build(%v) error = %v, want ErrEmptyPlan", plan, err)
		}
	}
}

func TestBuild_ClampsThreads(t *testing.T) {
	plan := &planner.Plan{Kind: planner.KindMetadata, InputPath: "in", OutputPath: "out", Body: []string{"-c", "copy"}}
	got, _ := Build("ffmpeg", plan, 0)
	if got[len(got)-2] != "1" {
		t.Errorf("threads = %q, want 1", got[len(got)-2])
	}
}

func TestThreadCount(t *testing.T) {
	tests := []struct {
		cpus int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{16, 8},
	}
	for _, tt := range tests {
		if got := ThreadCount(tt.cpus); got != tt.want {
			t.Errorf("ThreadCount(%d) = %d, want %d", tt.cpus, got, tt.want)
		}
	}
	if DefaultThreads() < 1 {
		t.Error("DefaultThreads() < 1")
	}
}

func TestArgs_AppendOnly(t *testing.T) {
	a := NewArgs("ffmpeg").Add("-y").Flag("-i", "a b.mkv")
	snap := a.Slice()
	a.Add("out.mkv")
	if len(snap) != 4 || len(a.Slice()) != 5 {
		t.Errorf("snapshot %v, full %v", snap, a.Slice())
	}
	if snap[3] != "a b.mkv" {
		t.Errorf("value with space split: %q", snap)
	}
}
