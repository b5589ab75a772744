package agent

// Prompt contracts for the workflow nodes. The finalize prompts carry the
// presentation contract for the final answer (math delimiters and language
// register); downstream rendering depends on these rules exactly as written.

const queryWriterInstructions = `Your goal is to generate a targeted web search query.
The query will gather information related to a specific topic.

Topic: %s

Return your response as a JSON object with exactly these keys:
- "query": the actual search query string
- "aspect": the specific aspect of the topic being researched
- "rationale": brief explanation of why this query is relevant

Return the JSON object directly without any formatting or additional text.`

const summarizerInstructions = `You are an expert research summarizer.
Generate a high-quality summary of the provided search results.

When extending an existing summary:
1. Integrate new information without repeating what is already covered.
2. Maintain consistency with the existing content's style and depth.
3. Only add genuinely new or significant points.
4. Ensure a smooth transition between existing and new content.

Write the summary directly without meta-commentary about what you are doing.`

const reflectionInstructions = `You are an expert research assistant analyzing a summary about: %s

Your task is to identify knowledge gaps or areas that need deeper exploration
and generate a follow-up web search query that would help expand the
understanding of the topic.

Return your response as a JSON object with exactly these keys:
- "knowledge_gap": describe what information is missing or needs clarification
- "follow_up_query": write a specific question to address this gap

Return the JSON object directly without any formatting or additional text.`

const finalSummarizeInstructions = `You are producing the final research report for the user.
Combine the running summary, the passages retrieved from the user's PDF and the
research topic into one coherent, complete answer.

Language requirements:
1. Respond in Traditional Chinese.
2. Technical terms may be accompanied by their English originals.
3. Keep a professional, academic register.
4. Ensure the content is coherent and complete.`

// mathFormatRules is appended to the finalize system prompt. The renderer on
// the other side accepts only these delimiters, so the rules are part of the
// output contract, not a stylistic preference.
const mathFormatRules = `
You must strictly follow these rules for mathematical notation:

1. Inline formulas:
   - Must use a single $ on each side as the only delimiter.
   - Never use \( \), \[ \] or any other delimiter.
   - A space is required before and after each $ delimiter.
   - Correct: the transpose of matrix $ K $ is written $ K^T $
   - Correct: as $ n \to \infty $ the value approaches $ f(x) $
   - Wrong: the product of \(K\) and \(v\) (wrong delimiter)
   - Wrong: the matrix $K$ (no spaces around the delimiter)

2. Display formulas:
   - Must use double $$ delimiters with a space before and after.
   - Example:
     $$ \frac{d}{dx}f(x) = \lim_{h \to 0}\frac{f(x+h)-f(x)}{h} $$

3. All mathematical symbols and expressions use LaTeX syntax inside $ or $$
   delimiters, including complex ones:
   - Matrix products: $ A_{ij} = \sum_{k=1}^n B_{ik}C_{kj} $
   - Inner products: $ \langle u, v \rangle = u^T v $
   - Probabilities: $ P(X \leq x) = \int_{-\infty}^x f(t)dt $`
