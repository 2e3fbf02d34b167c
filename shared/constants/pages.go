package constants

type PageEnum string

const (
	PageLogin      PageEnum = "Login"
	PageSignup     PageEnum = "Signup"
	PageUpload     PageEnum = "Upload Dataset"
	PageInsights   PageEnum = "Data Insights"
	PagePrediction PageEnum = "Prediction"
	PageAbout      PageEnum = "About Churn"
)

// ChurnColumn is the label column the insights pages look for.
const ChurnColumn = "Churn"

const MenuFooter = "Developed by Sanjay using Decision Tree Model"
