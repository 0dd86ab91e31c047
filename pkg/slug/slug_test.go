// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestFrom verifies the slug transformation pipeline across representative
manga titles: casing, accents, punctuation, and non-Latin scripts.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple title", input: "Solo Leveling", expected: "solo-leveling"},
		{name: "accented characters", input: "Héroes del Mañana", expected: "heroes-del-manana"},
		{name: "punctuation", input: "Dr. STONE: reboot!", expected: "dr-stone-reboot"},
		{name: "consecutive separators", input: "One  --  Punch", expected: "one-punch"},
		{name: "leading and trailing junk", input: "  ~Vagabond~  ", expected: "vagabond"},
		{name: "digits preserved", input: "20th Century Boys", expected: "20th-century-boys"},
		{name: "fully cjk title yields empty", input: "葬送のフリーレン", expected: ""},
		{name: "empty input", input: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, From(tc.input))
		})
	}
}
