package benchmarks

import (
	"context"
	"strings"
	"testing"

	"github.com/zoobzio/sexpr"
	"github.com/zoobzio/sexpr/json"
	sexprtest "github.com/zoobzio/sexpr/testing"
)

func manyPads(n int) string {
	var b strings.Builder
	b.WriteString(`(footprint "Capacitor_SMD:C_0402"`)
	for i := 0; i < n; i++ {
		b.WriteString(` (pad 1 smd rect (at 0 0) (size 1.27 1.27) (layers "F.Cu"))`)
	}
	b.WriteString(")")
	return b.String()
}

func BenchmarkLex(b *testing.B) {
	src := manyPads(100)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sexpr.Lex(src)
	}
}

func BenchmarkParse(b *testing.B) {
	src := manyPads(100)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sexpr.Parse(src)
	}
}

func BenchmarkDecode_Footprint(b *testing.B) {
	n := sexprtest.MustParse(b, manyPads(100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sexpr.Decode(n, sexprtest.Footprint)
	}
}

func BenchmarkEncode_Footprint(b *testing.B) {
	v := sexprtest.MustDecode(b, manyPads(100), sexprtest.Footprint)
	e := sexpr.Encoder{Quote: sexpr.QuoteStrings}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Encode(v, sexprtest.Footprint)
	}
}

func BenchmarkWritePretty(b *testing.B) {
	n := sexprtest.MustParse(b, manyPads(100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sexpr.WritePretty(n)
	}
}

func BenchmarkProcessor_Decode(b *testing.B) {
	proc, _ := sexpr.NewProcessor(sexprtest.Footprint)
	data := []byte(sexprtest.FootprintTwoPads)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Decode(ctx, data)
	}
}

func BenchmarkProcessor_Export_JSON(b *testing.B) {
	proc, _ := sexpr.NewProcessor(sexprtest.Footprint)
	codec := json.New()
	data := []byte(sexprtest.FootprintTwoPads)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Export(ctx, data, codec)
	}
}

func BenchmarkProcessor_Fingerprint(b *testing.B) {
	proc, _ := sexpr.NewProcessor(sexprtest.Footprint, sexpr.WithHashAlgo(sexpr.HashBlake2b))
	data := []byte(sexprtest.PrettyTwoPads)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Fingerprint(ctx, data)
	}
}
