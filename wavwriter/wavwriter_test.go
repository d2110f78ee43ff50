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

package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/gamevm/platform/headless"
	"github.com/jetsetilly/gamevm/sound"
	"github.com/jetsetilly/gamevm/test"
	"github.com/jetsetilly/gamevm/wavwriter"
)

// writeBeep creates a mono 16bit wav file of one tenth of a second at a
// constant level
func writeBeep(t *testing.T, dir string, level int) string {
	t.Helper()

	path := filepath.Join(dir, "beep.wav")
	f, err := os.Create(path)
	test.DemandSuccess(t, err)
	defer f.Close()

	data := make([]int, wavwriter.SampleRate/10)
	for i := range data {
		data[i] = level
	}

	enc := wav.NewEncoder(f, wavwriter.SampleRate, 16, 1, 1)
	err = enc.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  wavwriter.SampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	})
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, enc.Close())

	return path
}

func TestRecording(t *testing.T) {
	dir := t.TempDir()
	beep := writeBeep(t, dir, 16384)

	var now float64
	hl := headless.NewHeadless()
	out := filepath.Join(dir, "out.wav")
	aw := wavwriter.New(out, hl, func() float64 { return now })

	snd, err := aw.LoadSound(beep)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, snd, uint32(1))

	aw.PlaySound(snd)
	now = 0.5
	aw.PlaySound(snd)

	// unknown handles are ignored by the recording but are still forwarded
	aw.PlaySound(5)
	test.ExpectEquality(t, len(hl.Played), 3)

	test.ExpectEquality(t, aw.Samples(), wavwriter.SampleRate/2+wavwriter.SampleRate/10)
	test.DemandSuccess(t, aw.Write())

	p, err := sound.Load(out)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.SampleRate, float64(wavwriter.SampleRate))
	test.ExpectEquality(t, len(p.Data), aw.Samples())
	test.ExpectApproximate(t, p.Data[0], 0.5, 0.01)
	test.ExpectApproximate(t, p.Data[wavwriter.SampleRate/4], 0, 0.01)
	test.ExpectApproximate(t, p.Data[wavwriter.SampleRate/2], 0.5, 0.01)
}

func TestOverlap(t *testing.T) {
	dir := t.TempDir()
	beep := writeBeep(t, dir, 24000)

	hl := headless.NewHeadless()
	aw := wavwriter.New(filepath.Join(dir, "out.wav"), hl, func() float64 { return 0 })

	snd, err := aw.LoadSound(beep)
	test.DemandSuccess(t, err)

	aw.PlaySound(snd)
	aw.PlaySound(snd)
	test.ExpectEquality(t, aw.Samples(), wavwriter.SampleRate/10)
	test.DemandSuccess(t, aw.Write())

	p, err := sound.Load(filepath.Join(dir, "out.wav"))
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, p.Data[0], 1.0, 0.01)
}

func TestLoadError(t *testing.T) {
	hl := headless.NewHeadless()
	aw := wavwriter.New(filepath.Join(t.TempDir(), "out.wav"), hl, func() float64 { return 0 })
	_, err := aw.LoadSound(filepath.Join(t.TempDir(), "missing.wav"))
	test.ExpectFailure(t, err)
}
