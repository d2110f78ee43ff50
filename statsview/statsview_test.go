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

package statsview_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gamevm/statsview"
	"github.com/jetsetilly/gamevm/test"
)

func TestURL(t *testing.T) {
	test.ExpectSuccess(t, strings.HasPrefix(statsview.URL(), "http://"+statsview.Address))
	test.ExpectSuccess(t, strings.HasSuffix(statsview.URL(), "/debug/statsview"))
}
