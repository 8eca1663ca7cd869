package service

const (
	MonthsPerYear = 12

	// Calculation log page size used when the caller passes no limit.
	DefaultRecentCalculations = 20

	DefaultChatModel       = "gpt-3.5-turbo"
	DefaultChatTemperature = 0.7
	DefaultChatMaxTokens   = 500

	mortgageRatePath   = "/v1/mortgagerate"
	chatCompletionPath = "/v1/chat/completions"
)

const chatSystemPrompt = `You are a helpful mortgage and real estate assistant. You help users understand:
- Mortgage calculations and payment breakdowns
- Different types of mortgages (fixed-rate, ARM, FHA, VA loans)
- Interest rates and how they affect payments
- Down payments and closing costs
- Home buying process and tips
- Refinancing options
- Credit score impacts on mortgages

Be friendly, clear, and provide accurate financial information. If users ask about specific calculations,
guide them through the process step by step. Always remind users to consult with financial advisors for
personalized advice.`
