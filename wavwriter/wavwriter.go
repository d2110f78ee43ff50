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

// Package wavwriter records the sounds played by the guest program and
// writes them to disk as a WAV file. Audio data is buffered in memory in its
// entirety and written to disk when the program ends. It is therefore
// probably only suitable for testing purposes.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/sound"
)

// SampleRate of the WAV file.
const SampleRate = 44100

// WavWriter implements the platform.Audio interface. Calls are forwarded to
// the wrapped Audio implementation.
type WavWriter struct {
	platform.Audio

	filename string

	// the time in seconds at which a sound starts playing
	clock func() float64

	// sounds are indexed by handle-1
	sounds [][]float32

	buffer []float32
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string, aud platform.Audio, clock func() float64) *WavWriter {
	return &WavWriter{
		Audio:    aud,
		filename: filename,
		clock:    clock,
	}
}

// LoadSound implements the platform.Audio interface.
func (aw *WavWriter) LoadSound(path string) (uint32, error) {
	snd, err := aw.Audio.LoadSound(path)
	if err != nil {
		return 0, err
	}

	p, err := sound.Load(path)
	if err != nil {
		return 0, err
	}

	for len(aw.sounds) < int(snd) {
		aw.sounds = append(aw.sounds, nil)
	}
	aw.sounds[snd-1] = p.Resample(SampleRate)

	return snd, nil
}

// PlaySound implements the platform.Audio interface.
func (aw *WavWriter) PlaySound(snd uint32) {
	aw.Audio.PlaySound(snd)

	if snd == 0 || int(snd) > len(aw.sounds) {
		return
	}

	pos := int(aw.clock() * SampleRate)
	samples := aw.sounds[snd-1]

	if end := pos + len(samples); end > len(aw.buffer) {
		aw.buffer = append(aw.buffer, make([]float32, end-len(aw.buffer))...)
	}
	for i, s := range samples {
		aw.buffer[pos+i] = max(-1, min(1, aw.buffer[pos+i]+s))
	}
}

// Samples returns the number of samples recorded so far.
func (aw *WavWriter) Samples() int {
	return len(aw.buffer)
}

// Write the recorded audio to disk as a mono 16bit WAV file.
func (aw *WavWriter) Write() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	data := make([]int, len(aw.buffer))
	for i, s := range aw.buffer {
		data[i] = int(s * 32767)
	}

	enc := wav.NewEncoder(f, SampleRate, 16, 1, 1)
	err = enc.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	})
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)

	if err := enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
