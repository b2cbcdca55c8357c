package blogservice

// Favorite is the blog with the most likes.
type Favorite struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// AuthorBlogs is the author with the most blogs.
type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

// AuthorLikes is the author whose blogs have the most likes in total.
type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// Stats is the result of every aggregation over one set of blogs.
type Stats struct {
	Blogs      int          `json:"blogs"`
	TotalLikes int          `json:"total_likes"`
	Favorite   *Favorite    `json:"favorite_blog"`
	MostBlogs  *AuthorBlogs `json:"most_blogs"`
	MostLikes  *AuthorLikes `json:"most_likes"`
}

// Summarize runs every aggregation over blogs.
func Summarize(blogs []Blog) *Stats {
	return &Stats{
		Blogs:      len(blogs),
		TotalLikes: TotalLikes(blogs),
		Favorite:   FavoriteBlog(blogs),
		MostBlogs:  MostBlogs(blogs),
		MostLikes:  MostLikes(blogs),
	}
}

// TotalLikes sums the likes of every blog, 0 for no blogs.
func TotalLikes(blogs []Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the most likes, or nil for no blogs.
// Ties go to the blog that comes first in blogs.
func FavoriteBlog(blogs []Blog) *Favorite {
	if len(blogs) == 0 {
		return nil
	}

	best := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > best.Likes {
			best = b
		}
	}

	return &Favorite{Title: best.Title, Author: best.Author, Likes: best.Likes}
}

// MostBlogs returns the author with the most blogs, or nil for no blogs.
// Ties go to the author that appears first in blogs.
func MostBlogs(blogs []Blog) *AuthorBlogs {
	tallies := tallyAuthors(blogs)
	if len(tallies) == 0 {
		return nil
	}

	best := tallies[0]
	for _, t := range tallies[1:] {
		if t.blogs > best.blogs {
			best = t
		}
	}

	return &AuthorBlogs{Author: best.author, Blogs: best.blogs}
}

// MostLikes returns the author with the highest like sum, or nil for no blogs.
// Ties go to the author that appears first in blogs.
func MostLikes(blogs []Blog) *AuthorLikes {
	tallies := tallyAuthors(blogs)
	if len(tallies) == 0 {
		return nil
	}

	best := tallies[0]
	for _, t := range tallies[1:] {
		if t.likes > best.likes {
			best = t
		}
	}

	return &AuthorLikes{Author: best.author, Likes: best.likes}
}

type authorTally struct {
	author string
	blogs  int
	likes  int
}

// tallyAuthors groups blogs by author in a single pass, keeping authors in
// order of first appearance.
func tallyAuthors(blogs []Blog) []authorTally {
	index := make(map[string]int)
	var tallies []authorTally

	for _, b := range blogs {
		i, ok := index[b.Author]
		if !ok {
			i = len(tallies)
			index[b.Author] = i
			tallies = append(tallies, authorTally{author: b.Author})
		}

		tallies[i].blogs++
		tallies[i].likes += b.Likes
	}

	return tallies
}
