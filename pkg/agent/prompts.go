package agent

// RefusalMessage is the fixed sentence for questions outside the family
// tree's scope.
const RefusalMessage = "I can only answer questions about the people and relationships in this family tree."

// noContextMessage is returned when retrieval produced nothing relevant.
const noContextMessage = "I could not find anything in the family tree to answer that."

// AnswerPrompt frames the final generation call. It pins the model to the
// retrieved context and to the fixed refusal sentence for anything out of
// scope. The first placeholder is the context block, the second the question.
const AnswerPrompt = `You answer questions about a family tree using only the provided context.

Rules:
- Answer only questions about the people, attributes, and relationships in the context.
- If the question is out of scope, reply with exactly: "%[3]s"
- If the context does not contain the answer, say the family tree has no information on it. Never invent people, dates, or relationships.
- Keep answers to one or two sentences.

Examples:

Question: Who is Marie Curie?
Context: Marie Curie (born: 1867-11-07, died: 1934-07-04, bio: physicist and chemist)
Answer: Marie Curie (1867-1934) was a physicist and chemist.

Question: What is the relationship between Anne and Claire?
Context: Anne is the grandparent of Claire (through Beth)
Answer: Anne is Claire's grandparent, through Beth.

Question: When was Pierre born?
Context: Pierre (born: 1859-05-15)
Answer: Pierre was born on 1859-05-15.

Question: What is the capital of France?
Context: Marie Curie (born: 1867-11-07)
Answer: %[3]s

Context:
%[1]s

Question: %[2]s
Answer:`
