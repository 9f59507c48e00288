package archive

import (
	"context"
	"testing"
)

func TestNoopArchiver_NeverErrors(t *testing.T) {
	a := NoopArchiver{}
	if err := a.Upload(context.Background(), "/tmp/anything.spoor_trace"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	count, err := a.DeleteOlderThan(context.Background(), 0)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if count.DeletedFiles != 0 || count.DeletedBytes != 0 {
		t.Errorf("expected zero deletions, got %+v", count)
	}
}

func TestOlderThan(t *testing.T) {
	cases := []struct {
		key       string
		threshold int64
		want      bool
	}{
		{"1-2-3-1000.spoor_trace", 2000, true},
		{"1-2-3-1000.spoor_trace", 500, false},
		{"prefix/1-2-3-1000.spoor_trace", 2000, true},
		{"malformed.spoor_trace", 2000, false},
	}
	for _, c := range cases {
		if got := olderThan(c.key, c.threshold); got != c.want {
			t.Errorf("olderThan(%q, %d) = %v, want %v", c.key, c.threshold, got, c.want)
		}
	}
}
