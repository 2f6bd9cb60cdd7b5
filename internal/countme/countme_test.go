// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package countme_test

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rome/tools-sub011/internal/countme"
)

type widget struct{ _ [16]byte }

func TestTrack(t *testing.T) {
	prev := countme.Enable(true)
	t.Cleanup(func() { countme.Enable(prev) })
	require.True(t, countme.Enabled())

	kept := make([]*widget, 3)
	for i := range kept {
		kept[i] = new(widget)
		countme.Track("widget", kept[i])
	}
	for range 2 {
		countme.Track("widget", new(widget))
	}

	c := countme.Get("widget")
	assert.Equal(t, int64(5), c.Total)
	assert.Equal(t, int64(5), c.MaxLive)

	assert.Eventually(t, func() bool {
		runtime.GC()
		return countme.Get("widget").Live == 3
	}, 5*time.Second, 10*time.Millisecond)
	runtime.KeepAlive(kept)

	assert.NotPanics(t, func() { countme.CheckLeaks(map[string]int64{"widget": 3}) })

	var out bytes.Buffer
	require.NoError(t, countme.Report(&out))
	assert.Contains(t, out.String(), "widget")
}

func TestDisabled(t *testing.T) {
	prev := countme.Enable(false)
	t.Cleanup(func() { countme.Enable(prev) })

	countme.Track("gadget", new(widget))
	assert.Equal(t, countme.Count{Name: "gadget"}, countme.Get("gadget"))
}
