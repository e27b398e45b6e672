package models

// Forms posted by the HTML pages. The form tags drive gin binding and the
// validate tags are checked by the services.

type LoginForm struct {
	Login    string `form:"login" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type RegisterForm struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

type ProfileForm struct {
	Name    string `form:"name" validate:"required"`
	Phone   string `form:"phone" validate:"omitempty,vnphone"`
	Address string `form:"address"`
}

type PasswordForm struct {
	OldPassword     string `form:"oldPassword" validate:"required"`
	NewPassword     string `form:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// CheckoutForm is the shipping form submitted from the checkout page.
type CheckoutForm struct {
	CustomerName  string        `form:"customerName" validate:"required"`
	Phone         string        `form:"phone" validate:"required,vnphone"`
	Email         string        `form:"email" validate:"required,email"`
	Address       string        `form:"address" validate:"required"`
	PaymentMethod PaymentMethod `form:"paymentMethod" validate:"required,oneof=COD ONLINE"`
	Note          string        `form:"note"`
}

// BookForm is the admin book editor. Price and image URLs arrive as raw
// text and are parsed by the admin service.
type BookForm struct {
	Title       string `form:"title" validate:"required"`
	AuthorID    int64  `form:"authorId" validate:"required"`
	Description string `form:"description" validate:"required"`
	Price       string `form:"price" validate:"required"`
	Stock       int    `form:"stock" validate:"gte=0"`
	CategoryID  int64  `form:"categoryId" validate:"required"`
	Images      string `form:"images" validate:"required"`
}

type AuthorForm struct {
	Name        string `form:"name" validate:"required"`
	Biography   string `form:"biography"`
	BirthDate   string `form:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Nationality string `form:"nationality"`
	ImageURL    string `form:"imageUrl" validate:"omitempty,url"`
}

type CategoryForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description"`
}
