package planstore

import "testing"

func TestSplitURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{
			name:       "valid uri",
			uri:        "gs://founderdesk-plans/plans/s1/abc_plan.pdf",
			wantBucket: "founderdesk-plans",
			wantObject: "plans/s1/abc_plan.pdf",
		},
		{
			name:    "missing scheme",
			uri:     "founderdesk-plans/plans/s1/plan.pdf",
			wantErr: true,
		},
		{
			name:    "no object path",
			uri:     "gs://founderdesk-plans",
			wantErr: true,
		},
		{
			name:    "empty object path",
			uri:     "gs://founderdesk-plans/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := splitURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("splitURI(%q) expected error", tt.uri)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitURI(%q): %v", tt.uri, err)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("splitURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("gs://b/plans/s1/abc_plan.pdf"); got != "abc_plan.pdf" {
		t.Errorf("Filename = %q, want abc_plan.pdf", got)
	}
	if got := Filename("gs://b"); got != "b" {
		t.Errorf("Filename = %q, want b", got)
	}
}
