package web

const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Quiz Time!</title>
  <style>
    * { box-sizing: border-box; margin: 0; padding: 0; }
    body {
      font-family: Arial, Helvetica, sans-serif;
      background: #f5efe6;
      display: flex;
      align-items: center;
      justify-content: center;
      min-height: 100vh;
      padding: 1rem;
    }
    .container {
      background: #fff;
      border-radius: 1rem;
      box-shadow: 0 10px 25px rgba(0,0,0,0.1);
      width: 100%;
      max-width: 600px;
      overflow: hidden;
    }
    .screen { display: none; padding: 2rem; text-align: center; }
    .screen.active { display: block; }
    h1 { color: #e86a33; margin-bottom: 1rem; font-size: 2.2rem; }
    h2 { color: #333; margin-bottom: 1.5rem; line-height: 1.4; }
    p { color: #666; margin-bottom: 1.5rem; }
    .quiz-header { margin-bottom: 1.5rem; }
    .quiz-info { display: flex; justify-content: space-between; color: #666; margin-bottom: 1rem; }
    .answers { display: flex; flex-direction: column; gap: 0.8rem; margin-bottom: 1rem; }
    .answer-btn {
      background: #f8f0e5;
      color: #333;
      border: 2px solid #eadbc8;
      border-radius: 10px;
      padding: 1rem;
      cursor: pointer;
      text-align: left;
      font-size: 1rem;
    }
    .answer-btn:hover { background: #eadbc8; border-color: #dac0a3; }
    .answer-btn.correct { background: #e6fff0; border-color: #a3f0c4; color: #28a745; }
    .answer-btn.incorrect { background: #fff0f0; border-color: #ffbdbd; color: #dc3545; }
    .progress-bar { height: 10px; background: #f8f0e5; border-radius: 5px; overflow: hidden; margin-top: 20px; }
    .progress { height: 100%; background: #e86a33; width: 0%; transition: width 0.3s ease; }
    button.primary {
      background: #e86a33;
      color: #fff;
      border: none;
      border-radius: 10px;
      padding: 1rem 2rem;
      font-size: 1.1rem;
      cursor: pointer;
    }
    .result-info { background: #f8f0e5; border-radius: 10px; padding: 1.5rem; margin-bottom: 2rem; }
    .result-message { font-size: 1.5rem; font-weight: 600; color: #e86a33; }
  </style>
</head>
<body>
  <div class="container">
    <div id="start-screen" class="screen active">
      <h1>Quiz Time!</h1>
      <p>Test your knowledge with these fun questions</p>
      <button id="start-btn" class="primary">Start Quiz</button>
    </div>
    <div id="quiz-screen" class="screen">
      <div class="quiz-header">
        <h2 id="question-text"></h2>
        <div class="quiz-info">
          <p>Question <span id="current-question">1</span> of <span class="total-questions"></span></p>
          <p>Score: <span id="score">0</span></p>
        </div>
      </div>
      <div class="answers" id="answers-container"></div>
      <div class="progress-bar"><div class="progress" id="progress"></div></div>
    </div>
    <div id="result-screen" class="screen">
      <h1>Quiz Results</h1>
      <div class="result-info">
        <p>You answered <span id="final-score">0</span> out of <span class="total-questions"></span> questions correctly</p>
        <div id="result-message" class="result-message"></div>
      </div>
      <button id="restart-btn" class="primary">Restart Quiz</button>
    </div>
  </div>
  <script>
    let renderedQuestion = -1;

    function show(id) {
      document.querySelectorAll(".screen").forEach(s => s.classList.remove("active"));
      document.getElementById(id).classList.add("active");
    }

    async function call(method, path, body) {
      const res = await fetch(path, {
        method: method,
        headers: body ? { "Content-Type": "application/json" } : {},
        body: body ? JSON.stringify(body) : undefined
      });
      return res.json();
    }

    function render(state) {
      document.querySelectorAll(".total-questions").forEach(s => s.textContent = state.total);
      document.getElementById("score").textContent = state.score;
      document.getElementById("progress").style.width = state.progress + "%";
      if (state.phase === "start") {
        show("start-screen");
        return;
      }
      if (state.phase === "finished") {
        renderedQuestion = -1;
        document.getElementById("final-score").textContent = state.result.score;
        document.getElementById("result-message").textContent = state.result.message;
        show("result-screen");
        return;
      }
      show("quiz-screen");
      const q = state.question;
      if (q.index !== renderedQuestion) {
        renderedQuestion = q.index;
        document.getElementById("current-question").textContent = q.number;
        document.getElementById("question-text").textContent = q.prompt;
        const box = document.getElementById("answers-container");
        box.innerHTML = "";
        q.answers.forEach((text, i) => {
          const button = document.createElement("button");
          button.textContent = text;
          button.classList.add("answer-btn");
          button.addEventListener("click", () => answer(i));
          box.appendChild(button);
        });
      }
      if (state.phase === "feedback") {
        const buttons = document.getElementById("answers-container").children;
        state.feedback.forEach((f, i) => {
          if (f.correct) {
            buttons[i].classList.add("correct");
          } else if (f.selected) {
            buttons[i].classList.add("incorrect");
          }
        });
        setTimeout(refresh, 250);
      }
    }

    async function refresh() { render(await call("GET", "/api/state")); }
    async function start() { renderedQuestion = -1; render(await call("POST", "/api/start")); }
    async function answer(i) {
      const state = await call("POST", "/api/answer", { answer: i });
      if (!state.error) { render(state); }
    }

    document.getElementById("start-btn").addEventListener("click", start);
    document.getElementById("restart-btn").addEventListener("click", start);
    refresh();
  </script>
</body>
</html>`
