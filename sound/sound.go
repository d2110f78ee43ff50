// This file is part of Gamevm.
//
// Gamevm is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gamevm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gamevm.  If not, see <https://www.gnu.org/licenses/>.

// Package sound decodes WAV and MP3 files for the load_sound() guest builtin.
// The decoded data is mono and normalised to the range -1 to 1.
package sound

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/logger"
)

const logTag = "sound"

// sentinel patterns returned by Load()
const (
	UnsupportedFormat = "sound: unsupported format (%s)"
	DecodeError       = "sound: %s: %v"
)

// PCM is decoded sound data.
type PCM struct {
	// length of sound in seconds
	Duration float64

	SampleRate float64

	// mono data. taken from the left channel in the case of stereo source
	// files
	Data []float32
}

// Load decodes the file. The format is decided by the filename extension.
func Load(path string) (*PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, curated.Errorf(DecodeError, path, err)
	}
	defer f.Close()

	var p *PCM

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		p, err = decodeWAV(f)
	case ".mp3":
		p, err = decodeMP3(f)
	default:
		return nil, curated.Errorf(UnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, curated.Errorf(DecodeError, path, err)
	}

	logger.Logf(logger.Allow, logTag, "%s: sample rate: %0.2fHz", path, p.SampleRate)
	logger.Logf(logger.Allow, logTag, "%s: total time: %.02fs", path, p.Duration)

	return p, nil
}

func decodeWAV(r io.ReadSeeker) (*PCM, error) {
	dec := wav.NewDecoder(r)
	if dec == nil {
		return nil, fmt.Errorf("wav: error decoding")
	}

	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: not a valid wav file")
	}

	// load all data at once
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	floatBuf := buf.AsFloat32Buffer()

	p := &PCM{
		SampleRate: float64(dec.SampleRate),
	}

	// copy first channel only of data stream
	chans := int(dec.NumChans)
	if chans == 0 {
		return nil, fmt.Errorf("wav: no channels")
	}
	p.Data = make([]float32, 0, len(floatBuf.Data)/chans)
	for i := 0; i < len(floatBuf.Data); i += chans {
		p.Data = append(p.Data, floatBuf.Data[i])
	}

	dur, err := dec.Duration()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	p.Duration = dur.Seconds()

	return p, nil
}

func decodeMP3(r io.Reader) (*PCM, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	p := &PCM{
		SampleRate: float64(dec.SampleRate()),
	}

	// the stream is always 16bit little endian with two channels, even if the
	// source is a single channel. a sample is four bytes and we only want the
	// left channel
	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n; i += 4 {
			v := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
			p.Data = append(p.Data, float32(v)/32768)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mp3: %w", err)
		}
	}

	if p.SampleRate > 0 {
		p.Duration = float64(len(p.Data)) / p.SampleRate
	}

	return p, nil
}

// Resample returns the data at a different sample rate. Nearest neighbour
// sampling is good enough for sound effects.
func (p *PCM) Resample(rate float64) []float32 {
	if rate <= 0 || p.SampleRate <= 0 {
		return nil
	}
	if rate == p.SampleRate {
		return p.Data
	}

	n := int(float64(len(p.Data)) * rate / p.SampleRate)
	out := make([]float32, n)
	step := p.SampleRate / rate
	for i := range out {
		j := int(float64(i) * step)
		if j >= len(p.Data) {
			j = len(p.Data) - 1
		}
		out[i] = p.Data[j]
	}
	return out
}
