package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func listWithOneBlog() []Blog {
	return []Blog{
		{Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", URL: "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html", Likes: 5},
	}
}

func listWithManyBlogs() []Blog {
	return []Blog{
		{Title: "React patterns", Author: "Michael Chan", URL: "https://reactpatterns.com/", Likes: 7},
		{Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", URL: "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html", Likes: 5},
		{Title: "Canonical string reduction", Author: "Edsger W. Dijkstra", URL: "http://www.cs.utexas.edu/~EWD/transcriptions/EWD08xx/EWD808.html", Likes: 12},
		{Title: "First class tests", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2017/05/05/TestDefinitions.htmll", Likes: 10},
		{Title: "TDD harms architecture", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2017/03/03/TDD-Harms-Architecture.html", Likes: 0},
		{Title: "Type wars", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2016/05/01/TypeWars.html", Likes: 2},
	}
}

func TestTotalLikes(t *testing.T) {
	testCases := []struct {
		name  string
		blogs []Blog
		want  int
	}{
		{name: "empty list", blogs: nil, want: 0},
		{name: "two blogs", blogs: []Blog{{Likes: 3}, {Likes: 5}}, want: 8},
		{name: "one blog", blogs: listWithOneBlog(), want: 5},
		{name: "many blogs", blogs: listWithManyBlogs(), want: 36},
		{name: "negative likes are summed", blogs: []Blog{{Likes: -2}, {Likes: 5}}, want: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TotalLikes(tc.blogs))
		})
	}
}

func TestFavoriteBlog(t *testing.T) {
	testCases := []struct {
		name  string
		blogs []Blog
		want  *Favorite
	}{
		{name: "empty list", blogs: []Blog{}, want: nil},
		{
			name:  "picks the most liked",
			blogs: []Blog{{Title: "A", Likes: 1}, {Title: "B", Likes: 9}},
			want:  &Favorite{Title: "B", Likes: 9},
		},
		{
			name:  "many blogs",
			blogs: listWithManyBlogs(),
			want:  &Favorite{Title: "Canonical string reduction", Author: "Edsger W. Dijkstra", Likes: 12},
		},
		{
			name:  "tie goes to the first",
			blogs: []Blog{{Title: "A", Likes: 4}, {Title: "B", Likes: 9}, {Title: "C", Likes: 9}},
			want:  &Favorite{Title: "B", Likes: 9},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FavoriteBlog(tc.blogs))
		})
	}
}

func TestFavoriteBlogDoesNotReorderInput(t *testing.T) {
	blogs := []Blog{{Title: "A", Likes: 1}, {Title: "B", Likes: 9}, {Title: "C", Likes: 3}}

	FavoriteBlog(blogs)

	assert.Equal(t, []string{"A", "B", "C"}, []string{blogs[0].Title, blogs[1].Title, blogs[2].Title})
}

func TestMostBlogs(t *testing.T) {
	testCases := []struct {
		name  string
		blogs []Blog
		want  *AuthorBlogs
	}{
		{name: "empty list", blogs: nil, want: nil},
		{
			name:  "three records",
			blogs: []Blog{{Author: "A"}, {Author: "A"}, {Author: "B"}},
			want:  &AuthorBlogs{Author: "A", Blogs: 2},
		},
		{
			name:  "many blogs",
			blogs: listWithManyBlogs(),
			want:  &AuthorBlogs{Author: "Robert C. Martin", Blogs: 3},
		},
		{
			name:  "tie goes to the first author seen",
			blogs: []Blog{{Author: "B"}, {Author: "A"}, {Author: "A"}, {Author: "B"}},
			want:  &AuthorBlogs{Author: "B", Blogs: 2},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MostBlogs(tc.blogs))
		})
	}
}

func TestMostLikes(t *testing.T) {
	testCases := []struct {
		name  string
		blogs []Blog
		want  *AuthorLikes
	}{
		{name: "empty list", blogs: nil, want: nil},
		{
			name:  "summed per author",
			blogs: []Blog{{Author: "A", Likes: 3}, {Author: "A", Likes: 4}, {Author: "B", Likes: 5}},
			want:  &AuthorLikes{Author: "A", Likes: 7},
		},
		{
			name:  "one blog",
			blogs: listWithOneBlog(),
			want:  &AuthorLikes{Author: "Edsger W. Dijkstra", Likes: 5},
		},
		{
			name:  "many blogs",
			blogs: listWithManyBlogs(),
			want:  &AuthorLikes{Author: "Edsger W. Dijkstra", Likes: 17},
		},
		{
			name:  "tie goes to the first author seen",
			blogs: []Blog{{Author: "B", Likes: 5}, {Author: "A", Likes: 5}},
			want:  &AuthorLikes{Author: "B", Likes: 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MostLikes(tc.blogs))
		})
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(listWithManyBlogs())

	assert.Equal(t, 6, stats.Blogs)
	assert.Equal(t, 36, stats.TotalLikes)
	assert.Equal(t, "Canonical string reduction", stats.Favorite.Title)
	assert.Equal(t, "Robert C. Martin", stats.MostBlogs.Author)
	assert.Equal(t, "Edsger W. Dijkstra", stats.MostLikes.Author)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.TotalLikes)
	assert.Nil(t, empty.Favorite)
	assert.Nil(t, empty.MostBlogs)
	assert.Nil(t, empty.MostLikes)
}
