package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogsJSON = `[
	{"_id": "5a422a851b54a676234d17f7", "title": "React patterns", "author": "Michael Chan", "url": "https://reactpatterns.com/", "likes": 7},
	{"_id": "5a422aa71b54a676234d17f8", "title": "Go To Statement Considered Harmful", "author": "Edsger W. Dijkstra", "url": "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html", "likes": 5},
	{"_id": "5a422b3a1b54a676234d17f9", "title": "Canonical string reduction", "author": "Edsger W. Dijkstra", "url": "http://www.cs.utexas.edu/~EWD/transcriptions/EWD08xx/EWD808.html", "likes": 12},
	{"_id": "5a422b891b54a676234d17fa", "title": "First class tests", "author": "Robert C. Martin", "url": "http://blog.cleancoder.com/uncle-bob/2017/05/05/TestDefinitions.htmll", "likes": 10},
	{"_id": "5a422ba71b54a676234d17fb", "title": "TDD harms architecture", "author": "Robert C. Martin", "url": "http://blog.cleancoder.com/uncle-bob/2017/03/03/TDD-Harms-Architecture.html", "likes": 0},
	{"_id": "5a422bc61b54a676234d17fc", "title": "Type wars", "author": "Robert C. Martin", "url": "http://blog.cleancoder.com/uncle-bob/2016/05/01/TypeWars.html", "likes": 2}
]`

func TestRunFromFile(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected string
		wantErr  bool
	}{
		{
			name:    "list of blogs",
			content: blogsJSON,
			expected: `{
				"blogs": 6,
				"total_likes": 36,
				"favorite_blog": {"title": "Canonical string reduction", "author": "Edsger W. Dijkstra", "likes": 12},
				"most_blogs": {"author": "Robert C. Martin", "blogs": 3},
				"most_likes": {"author": "Edsger W. Dijkstra", "likes": 17}
			}`,
		},
		{
			name:     "empty list",
			content:  `[]`,
			expected: `{"blogs": 0, "total_likes": 0, "favorite_blog": null, "most_blogs": null, "most_likes": null}`,
		},
		{
			name:    "not a list",
			content: `{"title": "React patterns"}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "blogs.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			var out bytes.Buffer
			err := run([]string{"-file", path}, &out)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, out.String())
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-file", filepath.Join(t.TempDir(), "missing.json")}, &out)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}
