package responder

const (
	greetingResponse = "Hello! I'm the Luuno AI - your quantum-enhanced business automation platform. How can I help transform your business today?"

	declineResponse = "Understood. What would you like to focus on instead? I can help with AI agents, workflow automation, or business optimization."

	affirmResponse = "Excellent! What aspect of Luuno's capabilities would you like to explore?"

	serviceOverviewResponse = `As the Luuno AI platform, I can help you build:

🤖 **Custom AI Agents** - Sales, booking, client management, analytics
⚡ **Workflow Automation** - n8n, Flozy integration, proprietary systems
📊 **Business Intelligence** - Predictive analytics with quantum enhancement
🌐 **Infrastructure** - Centralized marketing, sales, CRM, operations

What specific business challenge would you like to solve?`

	recommendationInviteResponse = `The R7 Recommendation Engine analyzes your business and provides 7 specific growth actions:

1. **Sales Optimization**
2. **Marketing Strategy**
3. **Operations Efficiency**
4. **Customer Retention**
5. **Revenue Streams**
6. **Cost Reduction**
7. **Growth Scaling**

Would you like me to run an R7 analysis for your business? Just tell me your business type (fitness, restaurant, consulting, etc.).`

	// %s is the caller's original query, echoed verbatim.
	capabilitySummaryFormat = `I'm the Luuno AI with quantum-enhanced capabilities.

For questions like "%s" - I can provide business-focused insights on automation, AI agents, and optimization.

My core expertise:
• Quantum-enhanced processing and optimization
• AI agent deployment and management
• Workflow automation and intelligence
• Predictive business analytics

How can I help optimize your business operations?`

	defaultResponse = "I'm the Luuno AI - your quantum-enhanced business automation platform. I can help with AI agents, workflow automation, quantum optimization, and predictive intelligence. What business challenge can I help you solve?"
)

var (
	greetingWords      = []string{"hello", "hi", "hey"}
	shortReplyWords    = []string{"no", "yes", "ok", "okay"}
	businessKeywords   = []string{"business", "automat", "workflow", "crm", "sales", "marketing"}
	recommendKeywords  = []string{"r7", "recommendation", "growth", "analyze", "business plan"}
	capabilityKeywords = []string{"quantum", "how", "what", "why", "fish", "breathe"}
)
