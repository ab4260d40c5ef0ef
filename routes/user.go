package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"strings"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	if !readJSON(ctx, &userInput) {
		return
	}
	if userInput.PhoneNumber != "" && !utils.ValidatePhoneNumber(userInput.PhoneNumber) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid phone number. Use a Vietnamese mobile number like 0912345678.", ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	allows := true
	newUser = models.User{
		FirstName:           userInput.FirstName,
		LastName:            userInput.LastName,
		Email:               strings.ToLower(userInput.Email),
		PhoneNumber:         utils.NormalizePhoneNumber(userInput.PhoneNumber),
		Password:            hashedPassword,
		AllowsNotifications: &allows,
		Role:                models.RoleUser,
	}
	if userInput.IsOwner {
		newUser.Role = models.RoleOwner
	}

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	notificationService().NotifyWelcome(ctx.Request().Context(), &newUser)

	ctx.StatusCode(iris.StatusCreated)
	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	if !readJSON(ctx, &userInput) {
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, ctx)
}

// GetMe returns the caller's profile.
func GetMe(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	var user models.User
	if err := storage.DB.First(&user, auth.UserID).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, user)
}

func UpdateMe(ctx iris.Context) {
	var input UpdateProfileInput
	if !readJSON(ctx, &input) {
		return
	}
	if input.PhoneNumber != "" && !utils.ValidatePhoneNumber(input.PhoneNumber) {
		utils.WriteError(ctx, utils.NewValidationError("invalid phone number"))
		return
	}

	auth := utils.GetAuthContext(ctx)
	var user models.User
	if err := storage.DB.First(&user, auth.UserID).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = utils.NormalizePhoneNumber(input.PhoneNumber)
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if input.AllowsNotifications != nil {
		user.AllowsNotifications = input.AllowsNotifications
	}
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, user)
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":                  user.ID,
		"firstName":           user.FirstName,
		"lastName":            user.LastName,
		"email":               user.Email,
		"phoneNumber":         user.PhoneNumber,
		"role":                user.Role,
		"restaurantID":        user.RestaurantID,
		"allowsNotifications": user.AllowsNotifications,
		"accessToken":         tokenPair.AccessToken,
		"refreshToken":        tokenPair.RefreshToken,
	})
}

type RegisterUserInput struct {
	FirstName   string `json:"firstName" validate:"required,max=256"`
	LastName    string `json:"lastName" validate:"required,max=256"`
	Email       string `json:"email" validate:"required,max=256,email"`
	Password    string `json:"password" validate:"required,min=8,max=256"`
	PhoneNumber string `json:"phoneNumber"`
	// Restaurant owners sign up through the partner form.
	IsOwner bool `json:"isOwner"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	FirstName           string `json:"firstName" validate:"max=256"`
	LastName            string `json:"lastName" validate:"max=256"`
	PhoneNumber         string `json:"phoneNumber"`
	AvatarURL           string `json:"avatarURL" validate:"omitempty,url"`
	AllowsNotifications *bool  `json:"allowsNotifications"`
}
