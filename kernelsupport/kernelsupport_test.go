package kernelsupport

import "testing"

func Test_kernelVersion_Higher(t *testing.T) {
	tests := []struct {
		name string
		a    kernelVersion
		b    kernelVersion
		want bool
	}{
		{
			name: "2.0.0 >= 1.0.0 - major",
			a:    kernelVersion{major: 2},
			b:    kernelVersion{major: 1},
			want: true,
		},
		{
			name: "2.1.0 >= 2.0.0 - minor",
			a:    kernelVersion{major: 2, minor: 1},
			b:    kernelVersion{major: 2},
			want: true,
		},
		{
			name: "2.1.1 >= 2.1.0 - patch",
			a:    kernelVersion{major: 2, minor: 1, patch: 1},
			b:    kernelVersion{major: 2, minor: 1},
			want: true,
		},
		{
			name: "2.2.2 >= 2.2.2 - exact",
			a:    kernelVersion{major: 2, minor: 2, patch: 2},
			b:    kernelVersion{major: 2, minor: 2, patch: 2},
			want: true,
		},
		{
			name: "1.1.0 >= 2.0.0 - major false",
			a:    kernelVersion{major: 1, minor: 1},
			b:    kernelVersion{major: 2},
			want: false,
		},
		{
			name: "2.1.0 >= 2.2.0 - minor false",
			a:    kernelVersion{major: 2, minor: 1},
			b:    kernelVersion{major: 2, minor: 2},
			want: false,
		},
		{
			name: "2.2.0 >= 2.2.2 - patch false",
			a:    kernelVersion{major: 2, minor: 2},
			b:    kernelVersion{major: 2, minor: 2, patch: 1},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Higher(tt.b); got != tt.want {
				t.Errorf("kernelVersion.Higher() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_parseKernelVersion(t *testing.T) {
	tests := []struct {
		release string
		want    kernelVersion
		wantErr bool
	}{
		{
			release: "5.15.0",
			want:    kernelVersion{major: 5, minor: 15},
		},
		{
			release: "6.1.55-generic",
			want:    kernelVersion{major: 6, minor: 1, patch: 55},
		},
		{
			release: "5.10.0-8-amd64",
			want:    kernelVersion{major: 5, minor: 10},
		},
		{
			release: "4.19",
			want:    kernelVersion{major: 4, minor: 19},
		},
		{
			release: "mainline",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.release, func(t *testing.T) {
			got, err := parseKernelVersion(tt.release)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseKernelVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseKernelVersion() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func Test_featuresForVersion(t *testing.T) {
	ancient := featuresForVersion(kernelVersion{major: 3, minor: 19})
	if !ancient.Program.Has(KFeatProgSocketFilter) {
		t.Error("3.19 should support socket filter programs")
	}
	if !ancient.Attach.Has(KFeatAttachINetIngressEgress) {
		t.Error("3.19 should support inet ingress/egress attach")
	}
	if ancient.Program.Has(KFeatProgXDP) {
		t.Error("3.19 should not support XDP programs")
	}
	if ancient.Attach.Has(KFeatAttachInetSocketCreate) {
		t.Error("3.19 should not support inet socket create attach")
	}

	xdp := featuresForVersion(kernelVersion{major: 4, minor: 8})
	if !xdp.Program.Has(KFeatProgXDP) {
		t.Error("4.8 should support XDP programs")
	}
	if !xdp.Program.Has(KFeatProgKProbe | KFeatProgTracepoint) {
		t.Error("4.8 should support kprobe and tracepoint programs")
	}

	preLink := featuresForVersion(kernelVersion{major: 5, minor: 8})
	if preLink.Attach.Has(KFeatAttachXDP) {
		t.Error("5.8 should not support XDP link attach")
	}
	if !preLink.Attach.Has(KFeatAttachXDPDevMap) {
		t.Error("5.8 should support XDP devmap attach")
	}

	link := featuresForVersion(kernelVersion{major: 5, minor: 9})
	if !link.Attach.Has(KFeatAttachXDP | KFeatAttachXDPCPUMap | KFeatAttachSKLookup) {
		t.Error("5.9 should support XDP link, XDP cpumap and SK lookup attach")
	}
	if !link.Program.Has(KFeatProgSKLookup) {
		t.Error("5.9 should support SK lookup programs")
	}
}
