package skills

// These five vocabularies are static lookup tables, not learned models;
// extending them to cover an unseen skill is a matter of appending an
// entry, not retraining anything.

var programmingLanguages = toSet([]string{
	"python", "javascript", "typescript", "java", "c++", "c#", "go", "golang",
	"rust", "ruby", "php", "swift", "kotlin", "scala", "r", "matlab", "perl",
	"haskell", "erlang", "elixir", "clojure", "f#", "dart", "lua", "groovy",
	"objective-c", "assembly", "cobol", "fortran", "lisp", "prolog", "sql",
	"bash", "powershell", "shell", "html", "css", "sass", "less", "graphql",
})

var frameworks = toSet([]string{
	"react", "reactjs", "react.js", "angular", "angularjs", "vue", "vuejs",
	"vue.js", "svelte", "nextjs", "next.js", "nuxt", "nuxtjs", "gatsby",
	"django", "flask", "fastapi", "express", "expressjs", "nestjs", "nest.js",
	"spring", "spring boot", "springboot", "rails", "ruby on rails", "laravel",
	"symfony", "asp.net", "dotnet", ".net", ".net core", "blazor", "gin",
	"echo", "fiber", "actix", "axum", "rocket", "tokio", "tensorflow",
	"pytorch", "keras", "scikit-learn", "sklearn", "pandas", "numpy",
	"spark", "hadoop", "flink", "kafka", "rabbitmq", "celery", "airflow",
	"bootstrap", "tailwind", "tailwindcss", "material-ui", "mui", "chakra",
	"ant design", "styled-components", "emotion", "redux", "mobx", "zustand",
	"rxjs", "jquery", "backbone", "ember", "meteor", "phoenix", "ktor",
})

var tools = toSet([]string{
	"git", "github", "gitlab", "bitbucket", "svn", "mercurial", "docker",
	"kubernetes", "k8s", "helm", "terraform", "ansible", "puppet", "chef",
	"jenkins", "circleci", "travisci", "github actions", "gitlab ci",
	"azure devops", "aws", "azure", "gcp", "google cloud", "heroku",
	"vercel", "netlify", "digitalocean", "linode", "cloudflare", "nginx",
	"apache", "tomcat", "iis", "redis", "memcached", "elasticsearch",
	"kibana", "logstash", "grafana", "prometheus", "datadog", "splunk",
	"new relic", "sentry", "jira", "confluence", "trello", "asana",
	"slack", "teams", "zoom", "figma", "sketch", "adobe xd", "photoshop",
	"illustrator", "vs code", "vscode", "visual studio", "intellij",
	"pycharm", "webstorm", "eclipse", "vim", "emacs", "sublime", "atom",
	"postman", "insomnia", "swagger", "openapi", "graphql playground",
	"mysql", "postgresql", "postgres", "mongodb", "cassandra", "dynamodb",
	"firebase", "supabase", "sqlite", "oracle", "sql server", "mariadb",
	"neo4j", "couchdb", "influxdb", "timescaledb", "cockroachdb",
	"webpack", "vite", "rollup", "parcel", "esbuild", "babel", "eslint",
	"prettier", "jest", "mocha", "cypress", "playwright", "selenium",
	"pytest", "unittest", "junit", "testng", "rspec", "phpunit",
	"linux", "ubuntu", "centos", "debian", "macos", "windows server",
})

var softSkills = toSet([]string{
	"leadership", "communication", "teamwork", "collaboration", "problem-solving",
	"problem solving", "critical thinking", "creativity", "adaptability",
	"time management", "organization", "attention to detail", "multitasking",
	"decision making", "decision-making", "conflict resolution", "negotiation",
	"presentation", "public speaking", "written communication", "interpersonal",
	"emotional intelligence", "empathy", "mentoring", "coaching", "training",
	"project management", "agile", "scrum", "kanban", "waterfall", "lean",
	"stakeholder management", "client relations", "customer service",
	"cross-functional", "remote work", "self-motivated", "initiative",
	"analytical", "strategic thinking", "innovation", "continuous learning",
})

var technicalSkills = toSet([]string{
	"machine learning", "ml", "deep learning", "neural networks", "nlp",
	"natural language processing", "computer vision", "cv", "data science",
	"data analysis", "data engineering", "etl", "data visualization",
	"statistics", "a/b testing", "ab testing", "experimentation",
	"api design", "rest", "restful", "microservices", "monolith",
	"distributed systems", "cloud computing", "serverless", "saas", "paas",
	"devops", "devsecops", "sre", "site reliability", "ci/cd", "cicd",
	"infrastructure as code", "iac", "automation", "scripting",
	"security", "cybersecurity", "penetration testing", "encryption",
	"authentication", "authorization", "oauth", "jwt", "sso", "saml",
	"database design", "data modeling", "orm", "query optimization",
	"caching", "cdn", "load balancing", "high availability", "scalability",
	"performance optimization", "profiling", "debugging", "monitoring",
	"logging", "observability", "tracing", "incident response",
	"code review", "pair programming", "tdd", "bdd", "ddd", "solid",
	"design patterns", "clean code", "refactoring", "technical debt",
	"system design", "architecture", "frontend", "backend", "full stack",
	"fullstack", "mobile development", "ios", "android", "react native",
	"flutter", "cross-platform", "responsive design", "accessibility",
	"seo", "web performance", "pwa", "progressive web apps",
	"version control", "branching strategies", "gitflow", "trunk-based",
	"documentation", "technical writing", "api documentation",
	"blockchain", "smart contracts", "web3", "cryptocurrency",
	"iot", "embedded systems", "firmware", "hardware", "fpga",
	"game development", "graphics programming", "opengl", "vulkan",
	"ar", "vr", "augmented reality", "virtual reality", "3d modeling",
})

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
