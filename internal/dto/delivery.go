package dto

type DeliveryDetails struct {
	EstimatedTime string   `json:"estimatedTime"`
	Price         string   `json:"price"`
	Features      []string `json:"features"`
}

type DeliveryNotificationRequest struct {
	CompanyEmail    string          `json:"companyEmail" validate:"required,email"`
	CompanyName     string          `json:"companyName" validate:"required"`
	UserEmail       string          `json:"userEmail" validate:"required,email"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
}

type DeliveryEmailResponse struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type DeliveryNotificationResponse struct {
	Success       bool                  `json:"success"`
	Message       string                `json:"message"`
	EmailResponse DeliveryEmailResponse `json:"emailResponse"`
}
