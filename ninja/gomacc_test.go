package ninja

import "testing"

func TestGomaccOffset(t *testing.T) {
	cases := []struct {
		cmdline  string
		expected int
	}{
		{"prebuilts/gcc/linux-x86/arm/bin/arm-eabi-gcc -c foo.c -o foo.o", 0},
		{"prebuilts/clang/host/linux-x86/bin/clang++ -c x.cc -o x.o", 0},
		{"ccache prebuilts/gcc/linux-x86/bin/gcc -c foo.c -o foo.o", 7},
		{"ccache ccache prebuilts/clang/bin/clang -c x.c -o x.o", 14},
		{"gcc -c foo.c -o foo.o", -1},
		{"prebuilts/misc/tool -c foo.c", -1},
		{"prebuilts/gcc/linux-x86/bin/ld -o out", -1},
		{"prebuilts/gcc/linux-x86/bin/gcc -E foo.c", -1},
		{"prebuilts/gcc/linux-x86/bin/gcc", -1},
	}
	for i, c := range cases {
		if got := gomaccOffset(c.cmdline); got != c.expected {
			t.Fatalf("case %d: got %d, expected %d", i, got, c.expected)
		}
	}
}
