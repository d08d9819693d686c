package cms

// Record shapes for the hospital site's managed content. Field names match
// the API's JSON contract.

type Doctor struct {
	ID             string   `json:"id,omitempty"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Specialization string   `json:"specialization"`
	Qualifications []string `json:"qualifications,omitempty"`
	ExperienceYrs  int      `json:"experienceYears,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
}

type StaffMember struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

type Service struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
}

type NewsPost struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Slug          string `json:"slug,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	Content       string `json:"content,omitempty"`
	CoverImageURL string `json:"coverImageUrl,omitempty"`
	PublishedAt   string `json:"publishedAt,omitempty"`
}

type Event struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartsAt    string `json:"startsAt,omitempty"`
	EndsAt      string `json:"endsAt,omitempty"`
}

type FAQ struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order,omitempty"`
}

type Testimonial struct {
	ID       string `json:"id,omitempty"`
	Author   string `json:"author"`
	Relation string `json:"relation,omitempty"` // e.g. "Patient", "Caregiver"
	Quote    string `json:"quote"`
	Rating   int    `json:"rating,omitempty"`
}

// CompanyInfo is a singleton record: one per site, edited in place.
type CompanyInfo struct {
	Name        string            `json:"name"`
	Tagline     string            `json:"tagline,omitempty"`
	About       string            `json:"about,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Email       string            `json:"email,omitempty"`
	Address     string            `json:"address,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
}

// HeroSection is the per-page hero and metadata content, keyed by page slug.
type HeroSection struct {
	ID              string   `json:"id,omitempty"`
	Page            string   `json:"page"`
	Title           string   `json:"title"`
	Subtitle        string   `json:"subtitle,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

// Appointment requests submitted through the public site, managed
// (acknowledged/deleted) from the dashboard.
type Appointment struct {
	ID          string `json:"id,omitempty"`
	PatientName string `json:"patientName"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Message     string `json:"message,omitempty"`
	RequestedAt string `json:"requestedAt,omitempty"`
}
