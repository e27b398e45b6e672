package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookstore-web/models"

	"github.com/shopspring/decimal"
)

// flexID accepts numeric ids sent either as JSON numbers or strings.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*f = flexID(n)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime accepts the zone-less timestamps produced by the backend.
type flexTime struct {
	time.Time
}

// Unparseable values decode to the zero time.
func (t *flexTime) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		// [year, month, day, hour, minute, second, nanos]
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil || len(parts) < 3 {
			return nil
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t.Time = time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
		return nil
	}

	s := strings.Trim(string(b), `"`)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// authorRef is either an author name or an author object.
type authorRef struct {
	ID   flexID
	Name string
}

func (a *authorRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &a.Name)
	}
	var obj struct {
		ID   flexID `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	a.ID, a.Name = obj.ID, obj.Name
	return nil
}

type categoryDTO struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d categoryDTO) toModel() models.Category {
	return models.Category{ID: int64(d.ID), Name: d.Name, Description: d.Description}
}

type bookDTO struct {
	ID            flexID          `json:"id"`
	AltID         flexID          `json:"_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ISBN          string          `json:"isbn"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity *int            `json:"stockQuantity"`
	Quantity      *int            `json:"quantity"`
	Images        []string        `json:"images"`
	ImageURL      string          `json:"imageUrl"`
	Pages         int             `json:"pages"`
	Language      string          `json:"language"`
	Author        authorRef       `json:"author"`
	AuthorName    string          `json:"authorName"`
	AuthorID      flexID          `json:"authorId"`
	Category      *categoryDTO    `json:"category"`
	CategoryID    flexID          `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	CreatedAt     flexTime        `json:"createdAt"`
}

func (d bookDTO) toModel() models.Book {
	b := models.Book{
		ID:          int64(d.ID),
		Title:       d.Title,
		Description: d.Description,
		ISBN:        d.ISBN,
		Price:       d.Price,
		Images:      d.Images,
		Pages:       d.Pages,
		Language:    d.Language,
		Author:      d.Author.Name,
		AuthorID:    int64(d.AuthorID),
		CreatedAt:   d.CreatedAt.Time,
	}
	if b.ID == 0 {
		b.ID = int64(d.AltID)
	}
	if b.Author == "" {
		b.Author = d.AuthorName
	}
	if b.AuthorID == 0 {
		b.AuthorID = int64(d.Author.ID)
	}

	switch {
	case d.StockQuantity != nil:
		b.Stock = *d.StockQuantity
	case d.Quantity != nil:
		b.Stock = *d.Quantity
	}

	if len(b.Images) == 0 && d.ImageURL != "" {
		b.Images = []string{d.ImageURL}
	}

	if d.Category != nil {
		c := d.Category.toModel()
		b.Category = &c
	} else if d.CategoryID != 0 || d.CategoryName != "" {
		b.Category = &models.Category{ID: int64(d.CategoryID), Name: d.CategoryName}
	}
	return b
}

type authorDTO struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Biography   string `json:"biography"`
	Bio         string `json:"bio"`
	BirthDate   string `json:"birthDate"`
	Nationality string `json:"nationality"`
	ImageURL    string `json:"imageUrl"`
	BookCount   int    `json:"bookCount"`
	BooksCount  int    `json:"booksCount"`
}

func (d authorDTO) toModel() models.Author {
	a := models.Author{
		ID:          int64(d.ID),
		Name:        d.Name,
		Biography:   d.Biography,
		BirthDate:   d.BirthDate,
		Nationality: d.Nationality,
		ImageURL:    d.ImageURL,
		BooksCount:  d.BooksCount,
	}
	if a.Biography == "" {
		a.Biography = d.Bio
	}
	if a.BooksCount == 0 {
		a.BooksCount = d.BookCount
	}
	return a
}

type userDTO struct {
	ID        flexID   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Role      string   `json:"role"`
	Enabled   *bool    `json:"enabled"`
	CreatedAt flexTime `json:"createdAt"`
}

func (d userDTO) toModel() models.User {
	u := models.User{
		ID:        int64(d.ID),
		Username:  d.Username,
		Name:      fullName(d.Name, d.FirstName, d.LastName),
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		Role:      models.RoleFromBackend(d.Role),
		Enabled:   d.Enabled == nil || *d.Enabled,
		CreatedAt: d.CreatedAt.Time,
	}
	if u.Name == "" {
		u.Name = d.Username
	}
	return u
}

func fullName(name, first, last string) string {
	if name != "" {
		return name
	}
	return strings.TrimSpace(first + " " + last)
}

// splitName turns a display name into first and last name, the last word
// being the first name as is customary for Vietnamese names.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[len(parts)-1], strings.Join(parts[:len(parts)-1], " ")
	}
}

type orderItemDTO struct {
	BookID       flexID          `json:"bookId"`
	BookTitle    string          `json:"bookTitle"`
	BookAuthor   string          `json:"bookAuthor"`
	BookImageURL string          `json:"bookImageUrl"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Book         *bookDTO        `json:"book"`
}

func (d orderItemDTO) toModel() models.OrderItem {
	it := models.OrderItem{
		BookID:   int64(d.BookID),
		Title:    d.BookTitle,
		Author:   d.BookAuthor,
		ImageURL: d.BookImageURL,
		Quantity: d.Quantity,
		Price:    d.Price,
	}
	if d.Book != nil {
		b := d.Book.toModel()
		if it.BookID == 0 {
			it.BookID = b.ID
		}
		if it.Title == "" {
			it.Title = b.Title
		}
		if it.Author == "" {
			it.Author = b.Author
		}
		if it.ImageURL == "" {
			it.ImageURL = b.CoverImage()
		}
	}
	return it
}

type orderDTO struct {
	ID              flexID          `json:"id"`
	UserID          flexID          `json:"userId"`
	UserFullName    string          `json:"userFullName"`
	UserName        string          `json:"userName"`
	UserEmail       string          `json:"userEmail"`
	User            *userDTO        `json:"user"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	OrderDate       flexTime        `json:"orderDate"`
	CreatedAt       flexTime        `json:"createdAt"`
	OrderItems      []orderItemDTO  `json:"orderItems"`
}

func (d orderDTO) toModel() models.Order {
	o := models.Order{
		ID:              int64(d.ID),
		UserID:          int64(d.UserID),
		UserName:        d.UserFullName,
		UserEmail:       d.UserEmail,
		TotalAmount:     d.TotalAmount,
		Status:          models.OrderStatus(strings.ToUpper(d.Status)),
		ShippingAddress: d.ShippingAddress,
		PaymentMethod:   models.PaymentMethod(d.PaymentMethod),
		OrderDate:       d.OrderDate.Time,
		Items:           make([]models.OrderItem, 0, len(d.OrderItems)),
	}
	if o.UserName == "" {
		o.UserName = d.UserName
	}
	if d.User != nil {
		u := d.User.toModel()
		if o.UserID == 0 {
			o.UserID = u.ID
		}
		if o.UserName == "" {
			o.UserName = u.Name
		}
		if o.UserEmail == "" {
			o.UserEmail = u.Email
		}
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = d.CreatedAt.Time
	}
	for _, it := range d.OrderItems {
		o.Items = append(o.Items, it.toModel())
	}
	if o.TotalAmount.IsZero() {
		for _, it := range o.Items {
			o.TotalAmount = o.TotalAmount.Add(it.Subtotal())
		}
	}
	return o
}

type imageDTO struct {
	Filename     string   `json:"filename"`
	URL          string   `json:"url"`
	Size         int64    `json:"size"`
	LastModified flexTime `json:"lastModified"`
}

func (d imageDTO) toModel() models.ImageInfo {
	return models.ImageInfo{Filename: d.Filename, URL: d.URL, Size: d.Size, LastModified: d.LastModified.Time}
}

type pageMeta struct {
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

type pageEnvelope struct {
	Content json.RawMessage `json:"content"`
	Data    json.RawMessage `json:"data"`
	pageMeta
	Page *pageMeta `json:"page"`
}

// decodePage reads either a Spring page ({content,totalElements,totalPages,number})
// or a bare array, converting each element with conv.
func decodePage[D any, M any](raw []byte, conv func(D) M) (models.Page[M], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return models.Page[M]{Data: []M{}, CurrentPage: 1}, nil
	}

	var items []D
	meta := pageMeta{}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return models.Page[M]{}, fmt.Errorf("decode list: %w", err)
		}
		meta.TotalElements = int64(len(items))
		if len(items) > 0 {
			meta.TotalPages = 1
		}
	} else {
		var env pageEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return models.Page[M]{}, fmt.Errorf("decode page: %w", err)
		}
		content := env.Content
		if len(content) == 0 {
			content = env.Data
		}
		if len(content) > 0 {
			if err := json.Unmarshal(content, &items); err != nil {
				return models.Page[M]{}, fmt.Errorf("decode page content: %w", err)
			}
		}
		meta = env.pageMeta
		if env.Page != nil {
			meta = *env.Page
		}
	}

	out := models.Page[M]{
		Data:        make([]M, 0, len(items)),
		TotalItems:  meta.TotalElements,
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.Number + 1,
	}
	for _, it := range items {
		out.Data = append(out.Data, conv(it))
	}
	return out, nil
}

func decodeList[D any, M any](raw []byte, conv func(D) M) ([]M, error) {
	page, err := decodePage(raw, conv)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

