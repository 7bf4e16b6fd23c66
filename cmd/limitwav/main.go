// Command limitwav runs the peak limiter over a WAV file offline and
// reports level statistics before and after.
//
// Usage:
//
//	limitwav [flags] input.wav
//
// Examples:
//
//	limitwav -o limited.wav input.wav
//	limitwav -ceiling -3 -release 80 -makeup 6 -o loud.wav input.wav
//	limitwav -unlink -o dual.wav stereo.wav
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-limiter/dsp/buffer"
	"github.com/cwbudde/algo-limiter/dsp/limiter"
	"github.com/cwbudde/algo-limiter/measure/level"
)

func main() {
	out := flag.String("o", "out.wav", "output WAV path")
	ceiling := flag.Float64("ceiling", -0.3, "ceiling in dB, clamped to [-60, 0]")
	release := flag.Float64("release", 120, "release time in ms, clamped to [0.1, 5000]")
	makeup := flag.Float64("makeup", 0, "makeup gain in dB, clamped to [-24, 24]")
	bypass := flag.Bool("bypass", false, "copy the signal through unchanged")
	unlink := flag.Bool("unlink", false, "limit stereo channels independently")
	block := flag.Int("block", 1024, "processing block size in frames")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: limitwav [flags] input.wav\n\n")
		fmt.Fprintf(os.Stderr, "Limits a 16/24/32-bit PCM WAV file (mono or stereo) and prints\n")
		fmt.Fprintf(os.Stderr, "before/after level statistics.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(os.Stdout, flag.Arg(0), *out, limiter.Params{
		CeilingDB:  *ceiling,
		ReleaseMs:  *release,
		MakeupDB:   *makeup,
		Bypass:     *bypass,
		StereoLink: !*unlink,
	}, *block); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, inPath, outPath string, params limiter.Params, block int) error {
	if block < 1 {
		block = 1024
	}

	samples, format, bitDepth, err := decodeWAV(inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	channels := format.NumChannels

	before := level.MeasureInterleaved(widen(samples), channels)

	l := limiter.New(float64(format.SampleRate))
	l.SetParams(params)

	// Process out of place so the decoded signal stays intact for the
	// before/after comparison.
	limited := buffer.New(len(samples))

	for pos := 0; pos < len(samples); pos += block * channels {
		end := pos + block*channels
		if end > len(samples) {
			end = len(samples)
		}

		l.Process(limited.Samples()[pos:end], samples[pos:end], (end-pos)/channels, channels)
	}

	after := level.MeasureInterleaved(widen(limited.Samples()), channels)

	if err := encodeWAV(outPath, limited.Samples(), format, bitDepth); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	printReport(w, before, after, l.Params())

	return nil
}

func decodeWAV(path string) ([]float32, *audio.Format, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, 0, err
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, nil, 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	if n := buf.Format.NumChannels; n != 1 && n != 2 {
		return nil, nil, 0, fmt.Errorf("unsupported channel count: %d", n)
	}

	scale := 1.0 / float32(int64(1)<<(bitDepth-1))

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) * scale
	}

	return samples, buf.Format, bitDepth, nil
}

func encodeWAV(path string, samples []float32, format *audio.Format, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, format.SampleRate, bitDepth, format.NumChannels, 1)

	limit := int64(1)<<(bitDepth-1) - 1
	scale := float32(int64(1) << (bitDepth - 1))

	data := make([]int, len(samples))
	for i, v := range samples {
		s := int64(v * scale)
		if s > limit {
			s = limit
		} else if s < -limit-1 {
			s = -limit - 1
		}
		data[i] = int(s)
	}

	if err := enc.Write(&audio.IntBuffer{Data: data, Format: format}); err != nil {
		f.Close()
		return err
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func widen(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func printReport(w io.Writer, before, after []level.Stats, params limiter.Params) {
	fmt.Fprintf(w, "ceiling %.1f dB, release %.1f ms, makeup %.1f dB, link %v, bypass %v\n\n",
		params.CeilingDB, params.ReleaseMs, params.MakeupDB, params.StereoLink, params.Bypass)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ch\tpeak in\tpeak out\trms in\trms out\tcrest in\tcrest out")

	for ch := range before {
		fmt.Fprintf(tw, "%d\t%.2f dB\t%.2f dB\t%.2f dB\t%.2f dB\t%.2f dB\t%.2f dB\n",
			ch,
			before[ch].PeakDB, after[ch].PeakDB,
			before[ch].RMSDB, after[ch].RMSDB,
			before[ch].CrestDB, after[ch].CrestDB)
	}

	tw.Flush()
}
