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

package sdlplatform

import (
	"unsafe"

	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/sound"
	"github.com/veandco/go-sdl2/sdl"
)

// the sample rate requested from the audio device. the actual rate may be
// different
const requestedSampleRate = 48000

// the number of samples in the buffer of the audio device
const bufferLength = 1024

// audio mixes sound effects into a queue that is sent to the SDL audio device
// at the end of every frame.
type audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	// sounds are indexed by handle-1. samples have been resampled to the
	// rate of the audio device
	sounds [][]float32

	// mixed samples waiting to be queued
	pending []float32
}

// newAudio opens the default audio device. if the device cannot be opened
// then the audio type is still usable but nothing will be heard.
func newAudio() *audio {
	aud := &audio{}

	spec := &sdl.AudioSpec{
		Freq:     requestedSampleRate,
		Format:   sdl.AUDIO_F32SYS,
		Channels: 1,
		Samples:  bufferLength,
	}

	var err error
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		logger.Logf(logger.Allow, logTag, "audio: %v", err)
		aud.id = 0
		aud.spec = *spec
		return aud
	}

	logger.Logf(logger.Allow, logTag, "audio: %dHz", aud.spec.Freq)
	sdl.PauseAudioDevice(aud.id, false)

	return aud
}

func (aud *audio) destroy() {
	if aud.id != 0 {
		sdl.CloseAudioDevice(aud.id)
		aud.id = 0
	}
}

func (aud *audio) load(path string) (uint32, error) {
	pcm, err := sound.Load(path)
	if err != nil {
		return 0, err
	}
	aud.sounds = append(aud.sounds, pcm.Resample(float64(aud.spec.Freq)))
	return uint32(len(aud.sounds)), nil
}

func (aud *audio) play(snd uint32) {
	if snd == 0 || int(snd) > len(aud.sounds) {
		return
	}
	if aud.id == 0 {
		return
	}
	aud.pending = mix(aud.pending, aud.sounds[snd-1])
}

// flush pending samples to the audio device. no more than two frames worth
// of samples are kept in the device queue so that new sounds are heard
// promptly.
func (aud *audio) flush() {
	if aud.id == 0 || len(aud.pending) == 0 {
		return
	}

	chunk := int(aud.spec.Freq) / 30
	queued := int(sdl.GetQueuedAudioSize(aud.id)) / 4
	if queued > chunk {
		return
	}

	n := min(len(aud.pending), chunk)
	if err := sdl.QueueAudio(aud.id, f32bytes(aud.pending[:n])); err != nil {
		logger.Logf(logger.Allow, logTag, "audio: %v", err)
	}
	aud.pending = append(aud.pending[:0], aud.pending[n:]...)
}

// mix adds the samples to the start of the pending buffer. the result is
// clamped to the range -1 to 1.
func mix(pending []float32, samples []float32) []float32 {
	for i, s := range samples {
		if i < len(pending) {
			pending[i] = max(-1, min(1, pending[i]+s))
		} else {
			pending = append(pending, s)
		}
	}
	return pending
}

// f32bytes returns the memory of the float32 slice as a slice of bytes in
// the native byte order, which is the order expected by AUDIO_F32SYS.
func f32bytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}
