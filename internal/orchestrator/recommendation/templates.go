package recommendation

// Categories are the seven growth areas, in report order.
var Categories = [7]string{
	"Sales Optimization",
	"Marketing Strategy",
	"Operations Efficiency",
	"Customer Retention",
	"Revenue Streams",
	"Cost Reduction",
	"Growth Scaling",
}

const GenericTemplate = "generic"

type Projection struct {
	RevenueIncrease string
	TimeSavings     string
	CustomerGrowth  string
}

// Template is the action text per category for one business family.
type Template struct {
	Name        string
	Actions     [7]string
	Projections Projection
}

// Outcome constants shared by every business family.
const (
	automationLevel      = "75-90%"
	roiTimeline          = "3-6 months"
	competitiveAdvantage = "Significant automation and AI-driven insights"
	scalabilityFactor    = "High - system grows with business"
	totalTimeline        = "6 months"
)

var fitnessProjection = Projection{"40-60%", "25-35 hours/week", "50-80%"}

func builtinTemplates() map[string]Template {
	return map[string]Template{
		"fitness": {
			Name: "fitness",
			Actions: [7]string{
				"Implement AI-powered lead qualification system for membership inquiries",
				"Launch targeted social media campaigns for different fitness demographics",
				"Automate class booking and trainer scheduling systems",
				"Create personalized workout tracking and progress monitoring",
				"Add premium personal training and nutrition consultation services",
				"Optimize equipment maintenance schedules and energy usage",
				"Expand with additional locations or franchise opportunities",
			},
			Projections: fitnessProjection,
		},
		"restaurant": {
			Name: "restaurant",
			Actions: [7]string{
				"Deploy AI reservation system with upselling capabilities",
				"Implement targeted food promotion campaigns based on customer preferences",
				"Automate inventory management and supplier ordering systems",
				"Create loyalty program with personalized dining recommendations",
				"Add catering services and meal delivery options",
				"Optimize staff scheduling and reduce food waste through AI predictions",
				"Expand menu offerings or open additional restaurant locations",
			},
			Projections: Projection{"30-50%", "30-40 hours/week", "35-60%"},
		},
		"coffee_shop": {
			Name: "coffee_shop",
			Actions: [7]string{
				"Implement mobile ordering system with personalized recommendations",
				"Launch local community engagement and seasonal marketing campaigns",
				"Automate inventory tracking and optimize brew timing systems",
				"Create subscription-based coffee delivery and loyalty rewards",
				"Add retail coffee bean sales and brewing equipment",
				"Optimize staffing schedules and reduce ingredient waste",
				"Expand with additional locations or franchise development",
			},
			Projections: Projection{"25-40%", "20-30 hours/week", "40-65%"},
		},
		"consulting": {
			Name: "consulting",
			Actions: [7]string{
				"Implement AI-driven lead qualification and proposal automation",
				"Develop thought leadership content and industry-specific marketing",
				"Automate client onboarding and project management workflows",
				"Create ongoing client success programs and retention strategies",
				"Add premium consulting tiers and specialized service offerings",
				"Optimize administrative processes and outsource non-core activities",
				"Scale through strategic partnerships or team expansion",
			},
			Projections: Projection{"50-80%", "35-45 hours/week", "60-100%"},
		},
		"ecommerce": {
			Name: "ecommerce",
			Actions: [7]string{
				"Deploy AI-powered product recommendation and dynamic pricing",
				"Implement multi-channel marketing automation and retargeting campaigns",
				"Automate inventory management and order fulfillment processes",
				"Create personalized customer experience and loyalty programs",
				"Add subscription services and cross-selling opportunities",
				"Optimize shipping costs and automate customer service operations",
				"Expand to new markets or product categories",
			},
			Projections: Projection{"45-70%", "25-40 hours/week", "70-120%"},
		},
	}
}

// genericTemplate covers unknown business types. Its projections fall back to fitness.
var genericTemplate = Template{
	Name: GenericTemplate,
	Actions: [7]string{
		"Optimize sales processes with AI-powered lead management",
		"Implement data-driven marketing automation campaigns",
		"Streamline operations through process automation",
		"Enhance customer retention with personalized engagement",
		"Develop new revenue streams and service offerings",
		"Reduce operational costs through AI optimization",
		"Scale business through strategic expansion planning",
	},
	Projections: fitnessProjection,
}
